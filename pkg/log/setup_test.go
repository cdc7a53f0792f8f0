package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_CreatesRotatingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger := logrus.New()

	opts := NewProductionOptions("catalog-sync-test")
	opts.Dir = dir

	c, err := setup(logger, opts)
	require.NoError(t, err)

	logger.WithField("sku", "ABC123").Info("상품 업데이트")
	logger.WithField("sku", "ABC123").Error("상품 업데이트 실패")
	logger.Debug("원격 카테고리 조회")

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "Close는 여러 번 호출해도 안전해야 합니다")

	mainLog, err := os.ReadFile(filepath.Join(dir, "catalog-sync-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(mainLog), "상품 업데이트")
	assert.NotContains(t, string(mainLog), "원격 카테고리 조회")

	criticalLog, err := os.ReadFile(filepath.Join(dir, "catalog-sync-test.critical.log"))
	require.NoError(t, err)
	assert.Contains(t, string(criticalLog), "상품 업데이트 실패")

	// 운영 프로필은 Info 레벨이므로 Debug 로그는 기록되지 않습니다.
	verboseLog, err := os.ReadFile(filepath.Join(dir, "catalog-sync-test.verbose.log"))
	if err == nil {
		assert.NotContains(t, string(verboseLog), "원격 카테고리 조회")
	}
}

func TestSetup_InvalidOptions(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		opts Options
	}{
		{name: "Name 누락", opts: Options{}},
		{name: "Dir이 파일", opts: Options{Name: "app", Dir: file}},
		{name: "음수 MaxAge", opts: Options{Name: "app", MaxAge: -1}},
		{name: "음수 MaxSizeMB", opts: Options{Name: "app", MaxSizeMB: -1}},
		{name: "음수 MaxBackups", opts: Options{Name: "app", MaxBackups: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := setup(logrus.New(), tt.opts)
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestProfiles(t *testing.T) {
	t.Parallel()

	prod := NewProductionOptions("app")
	dev := NewDevelopmentOptions("app")

	assert.Equal(t, InfoLevel, prod.Level)
	assert.False(t, prod.EnableConsoleLog)
	assert.True(t, prod.EnableCriticalLog)

	assert.Equal(t, TraceLevel, dev.Level)
	assert.True(t, dev.EnableConsoleLog)

	assert.NoError(t, prod.Validate())
	assert.NoError(t, dev.Validate())
}

func TestWithComponentAndFields(t *testing.T) {
	t.Parallel()

	fields := Fields{"sku": "ABC123"}
	entry := WithComponentAndFields("reconcile", fields)

	assert.Equal(t, "reconcile", entry.Data["component"])
	assert.Equal(t, "ABC123", entry.Data["sku"])
	assert.NotContains(t, fields, "component", "원본 필드 맵을 변경하면 안 됩니다")
	assert.Equal(t, "woocommerce", WithComponent("woocommerce").Data["component"])
}
