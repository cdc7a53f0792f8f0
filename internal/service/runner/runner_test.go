package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/config"
	"github.com/darkkaiser/catalog-sync/internal/metrics"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce/wctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testCatalog = `[
	{
		"name": "Test",
		"sku": "ABC123",
		"type": "variable",
		"categories": ["NewCat"],
		"imgs": ["a.jpg"],
		"variations": [{"sku": "ABC123-S", "regular_price": "10.00"}]
	}
]`

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Notify(ctx context.Context, title, message string, errorOccurred bool) error {
	args := m.Called(ctx, title, message, errorOccurred)
	return args.Error(0)
}

func newTestConfig(t *testing.T, srv *wctest.Server, catalogJSON string) *config.AppConfig {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "prodotti.json")
	if catalogJSON != "" {
		require.NoError(t, os.WriteFile(catalogPath, []byte(catalogJSON), 0644))
	}

	return &config.AppConfig{
		WooCommerce: config.WooCommerceConfig{
			BaseURL:        srv.URL,
			ConsumerKey:    wctest.ConsumerKey,
			ConsumerSecret: wctest.ConsumerSecret,
			APIVersion:     "wc/v3",
			Timeout:        "5s",
			PerPage:        100,
		},
		Catalog: config.CatalogConfig{
			File:         catalogPath,
			ImageBaseURL: "https://cdn.example.com/img/",
		},
		Report: config.ReportConfig{
			Dir: filepath.Join(dir, "reports"),
		},
	}
}

func newTestRunner(t *testing.T, appConfig *config.AppConfig, sender *mockSender) *Runner {
	t.Helper()

	store, err := report.NewStore(appConfig.Report.Dir)
	require.NoError(t, err)

	if sender == nil {
		return New(appConfig, store, nil)
	}
	return New(appConfig, store, sender)
}

func TestRunner_Run(t *testing.T) {
	srv := wctest.NewServer(t)
	appConfig := newTestConfig(t, srv, testCatalog)

	sender := &mockSender{}
	sender.On("Notify", mock.Anything, "카탈로그 동기화", mock.AnythingOfType("string"), false).Return(nil).Once()

	r := newTestRunner(t, appConfig, sender)

	rep, err := r.Run(context.Background(), report.TriggerCLI, nil)
	require.NoError(t, err)

	assert.True(t, rep.Succeeded)
	assert.Equal(t, report.Counts{Created: 2}, rep.Counts)
	assert.Len(t, srv.Products(), 1)
	sender.AssertExpectations(t)

	t.Run("마지막 실행 결과", func(t *testing.T) {
		latest, err := r.Latest()
		require.NoError(t, err)
		assert.Equal(t, rep.RunID, latest.RunID)
	})

	t.Run("저장소에 기록됨", func(t *testing.T) {
		store, err := report.NewStore(appConfig.Report.Dir)
		require.NoError(t, err)

		saved, err := store.Latest()
		require.NoError(t, err)
		assert.Equal(t, rep.RunID, saved.RunID)
		assert.Equal(t, report.TriggerCLI, saved.Trigger)
	})
}

func TestRunner_Run_RecordsMetrics(t *testing.T) {
	srv := wctest.NewServer(t)
	appConfig := newTestConfig(t, srv, testCatalog)

	store, err := report.NewStore(appConfig.Report.Dir)
	require.NoError(t, err)

	m := metrics.New()
	r := New(appConfig, store, nil, WithMetrics(m))

	_, err = r.Run(context.Background(), report.TriggerCLI, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `catalog_sync_runs_total{result="success",trigger="cli"} 1`)
	assert.Contains(t, body, `catalog_sync_items_total{kind="product",status="created"} 1`)
	assert.Contains(t, body, `catalog_sync_items_total{kind="variation",status="created"} 1`)
	assert.Contains(t, body, "catalog_sync_running 0")
}

func TestRunner_Run_MissingCatalog(t *testing.T) {
	srv := wctest.NewServer(t)
	appConfig := newTestConfig(t, srv, "")

	sender := &mockSender{}
	sender.On("Notify", mock.Anything, mock.Anything, mock.Anything, true).Return(nil).Once()

	r := newTestRunner(t, appConfig, sender)

	rep, err := r.Run(context.Background(), report.TriggerCLI, nil)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
	require.NotNil(t, rep)
	assert.False(t, rep.Succeeded)
	assert.NotEmpty(t, rep.Error)
	assert.Empty(t, srv.Calls(), "카탈로그를 읽지 못하면 원격 요청을 보내지 않습니다")
	sender.AssertExpectations(t)
}

func TestRunner_Run_InProgress(t *testing.T) {
	srv := wctest.NewServer(t)
	r := newTestRunner(t, newTestConfig(t, srv, testCatalog), nil)

	r.runMu.Lock()
	assert.True(t, r.Running())

	rep, err := r.Run(context.Background(), report.TriggerSchedule, nil)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.True(t, apperrors.Is(err, apperrors.Conflict))

	_, err = r.RunAsync(context.Background(), report.TriggerAPI)
	assert.ErrorIs(t, err, ErrRunInProgress)

	r.runMu.Unlock()
	assert.False(t, r.Running())
}

func TestRunner_RunAsync_RejectsConcurrentRun(t *testing.T) {
	srv := wctest.NewServer(t)

	// 알림 전송 단계에서 실행을 멈춰두고 두 번째 실행을 요청합니다.
	release := make(chan struct{})
	notified := make(chan struct{})

	sender := &mockSender{}
	sender.On("Notify", mock.Anything, mock.Anything, mock.Anything, false).Run(func(mock.Arguments) {
		close(notified)
		<-release
	}).Return(nil).Once()

	r := newTestRunner(t, newTestConfig(t, srv, testCatalog), sender)

	runID, err := r.RunAsync(context.Background(), report.TriggerAPI)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	<-notified

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Run(context.Background(), report.TriggerCLI, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.True(t, apperrors.Is(err, apperrors.Conflict))
	}

	close(release)
	r.Wait()

	assert.False(t, r.Running())
	latest, err := r.Latest()
	require.NoError(t, err)
	assert.Equal(t, runID, latest.RunID)
	assert.Equal(t, report.TriggerAPI, latest.Trigger)
}

func TestRunner_Latest_NoReport(t *testing.T) {
	srv := wctest.NewServer(t)
	r := newTestRunner(t, newTestConfig(t, srv, testCatalog), nil)

	_, err := r.Latest()
	assert.ErrorIs(t, err, report.ErrNoReport)
}

func TestReconcileOptions(t *testing.T) {
	appConfig := &config.AppConfig{
		Catalog: config.CatalogConfig{ImageBaseURL: "https://cdn/"},
		Sync: config.SyncConfig{
			CreateCategories:      true,
			FailOnMissingCategory: true,
			AttributeTerms:        []config.AttributeTermsConfig{{Name: "Colore", AttributeID: 13, File: "colori.json"}},
			Brand:                 config.BrandConfig{Enabled: true, Field: "brands", Mapping: map[string]int64{"A": 1}},
		},
	}

	opts := reconcileOptions(appConfig, nil)

	assert.Equal(t, "https://cdn/", opts.ImageBaseURL)
	assert.True(t, opts.CreateCategories)
	assert.True(t, opts.FailOnMissingCategory)
	require.Len(t, opts.AttributeTerms, 1)
	assert.Equal(t, int64(13), opts.AttributeTerms[0].AttributeID)
	assert.True(t, opts.DerivedField.Enabled)
	assert.Equal(t, map[string]int64{"A": 1}, opts.DerivedField.Mapping)
}
