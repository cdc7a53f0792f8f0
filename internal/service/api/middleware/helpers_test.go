package middleware

import (
	"io"
	"testing"

	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// captureLogs 전역 로거의 출력을 버리고 기록된 Entry를 수집하는 Hook을 설치합니다.
// 전역 로거를 교체하므로 이 헬퍼를 사용하는 테스트는 t.Parallel()을 호출하지 않습니다.
func captureLogs(t *testing.T) *logtest.Hook {
	t.Helper()

	logger := applog.StandardLogger()
	oldOut := logger.Out
	oldHooks := logger.ReplaceHooks(make(logrus.LevelHooks))

	logger.SetOutput(io.Discard)
	hook := logtest.NewGlobal()

	t.Cleanup(func() {
		logger.ReplaceHooks(oldHooks)
		logger.SetOutput(oldOut)
	})

	return hook
}
