package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/service/api/handler/system"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer_Middlewares(t *testing.T) {
	e := NewHTTPServer(HTTPServerConfig{AllowOrigins: []string{"*"}})
	SetupRoutes(e, system.NewHandler(&fakeRunner{}, version.Info{}))

	t.Run("헬스 체크", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		assert.Empty(t, rec.Header().Get(echo.HeaderServer))
		assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	})

	t.Run("없는 경로", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "요청한 리소스를 찾을 수 없습니다", body.Message)
	})
}

func TestSetupRoutes_NilHandler(t *testing.T) {
	assert.PanicsWithValue(t, "System Handler는 필수입니다", func() {
		SetupRoutes(echo.New(), nil)
	})
}
