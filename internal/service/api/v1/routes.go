// Package v1 상태 API v1 라우트를 등록합니다.
package v1

import (
	"github.com/darkkaiser/catalog-sync/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// SetupRoutes v1 API 라우트를 등록합니다.
//
//	POST /api/v1/runs         동기화 실행 요청 (202, 실행 중이면 409)
//	GET  /api/v1/runs/latest  마지막 실행 결과 (없으면 404)
func SetupRoutes(e *echo.Echo, h *handler.Handler) {
	if h == nil {
		panic("Handler는 필수입니다")
	}

	grp := e.Group("/api/v1")
	{
		grp.POST("/runs", h.TriggerRun)
		grp.GET("/runs/latest", h.LatestRun)
	}
}
