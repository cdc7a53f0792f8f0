package system

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunStatus bool

func (f fakeRunStatus) Running() bool { return bool(f) }

func TestNewHandler_NilRunStatus(t *testing.T) {
	assert.PanicsWithValue(t, "RunStatus는 필수입니다", func() {
		NewHandler(nil, version.Info{})
	})
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		running bool
	}{
		{name: "대기 중", running: false},
		{name: "실행 중", running: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(fakeRunStatus(tt.running), version.Info{Version: "v1.0.0", Commit: "abc123"})

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

			require.NoError(t, h.HealthCheck(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			var body response.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "healthy", body.Status)
			assert.Equal(t, tt.running, body.Running)
			assert.Equal(t, "v1.0.0", body.Build.Version)
			assert.GreaterOrEqual(t, body.Uptime, int64(0))
		})
	}
}
