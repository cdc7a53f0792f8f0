package log

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failWriter struct{ err error }

func (w *failWriter) Write(_ []byte) (int, error) { return 0, w.err }

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestHook() (*hook, *safeBuffer, *safeBuffer, *safeBuffer, *safeBuffer) {
	mainBuf, critBuf, verbBuf, consBuf := &safeBuffer{}, &safeBuffer{}, &safeBuffer{}, &safeBuffer{}
	h := &hook{
		mainWriter:     mainBuf,
		criticalWriter: critBuf,
		verboseWriter:  verbBuf,
		consoleWriter:  consBuf,
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}
	return h, mainBuf, critBuf, verbBuf, consBuf
}

func newEntry(level Level, msg string) *Entry {
	e := logrus.NewEntry(logrus.New())
	e.Level = level
	e.Message = msg
	return e
}

func TestHook_Fire_Routing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		level        Level
		wantMain     bool
		wantCritical bool
		wantVerbose  bool
	}{
		{name: "Error 레벨은 Critical과 Main에 기록", level: ErrorLevel, wantMain: true, wantCritical: true},
		{name: "Warn 레벨은 Main에만 기록", level: WarnLevel, wantMain: true},
		{name: "Info 레벨은 Main에만 기록", level: InfoLevel, wantMain: true},
		{name: "Debug 레벨은 Verbose에만 기록", level: DebugLevel, wantVerbose: true},
		{name: "Trace 레벨은 Verbose에만 기록", level: TraceLevel, wantVerbose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, mainBuf, critBuf, verbBuf, consBuf := newTestHook()

			require.NoError(t, h.Fire(newEntry(tt.level, "sku=ABC123")))

			assert.Equal(t, tt.wantMain, mainBuf.String() != "")
			assert.Equal(t, tt.wantCritical, critBuf.String() != "")
			assert.Equal(t, tt.wantVerbose, verbBuf.String() != "")
			assert.Contains(t, consBuf.String(), "sku=ABC123", "콘솔에는 모든 레벨이 기록되어야 합니다")
		})
	}
}

func TestHook_Fire_WriterFailure(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("disk full")
	mainBuf := &safeBuffer{}
	h := &hook{
		mainWriter:     mainBuf,
		criticalWriter: &failWriter{err: writeErr},
		consoleWriter:  &failWriter{err: errors.New("console closed")},
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}

	err := h.Fire(newEntry(ErrorLevel, "상품 동기화 실패"))

	assert.ErrorIs(t, err, writeErr, "Critical 쓰기 실패가 반환되어야 합니다")
	assert.Contains(t, mainBuf.String(), "상품 동기화 실패", "Critical 실패와 무관하게 Main에는 기록되어야 합니다")
}

func TestHook_Close(t *testing.T) {
	t.Parallel()

	h, mainBuf, _, _, _ := newTestHook()
	require.NoError(t, h.Close())

	require.NoError(t, h.Fire(newEntry(InfoLevel, "무시되어야 함")))
	assert.Empty(t, mainBuf.String())
	assert.Equal(t, AllLevels, h.Levels())
}
