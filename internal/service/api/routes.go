package api

import (
	"github.com/darkkaiser/catalog-sync/internal/service/api/handler/system"
	"github.com/labstack/echo/v4"
)

// SetupRoutes 버전과 무관한 전역 라우트를 등록합니다.
func SetupRoutes(e *echo.Echo, h *system.Handler) {
	if h == nil {
		panic("System Handler는 필수입니다")
	}

	e.GET("/health", h.HealthCheck)
}
