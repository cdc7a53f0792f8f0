// Package system 서비스 상태 확인용 엔드포인트 핸들러를 제공합니다.
package system

import (
	"net/http"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

// RunStatus 동기화 실행 여부를 조회합니다.
type RunStatus interface {
	Running() bool
}

// Handler 시스템 엔드포인트 핸들러입니다.
type Handler struct {
	runStatus       RunStatus
	buildInfo       version.Info
	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(runStatus RunStatus, buildInfo version.Info) *Handler {
	if runStatus == nil {
		panic("RunStatus는 필수입니다")
	}

	return &Handler{
		runStatus:       runStatus,
		buildInfo:       buildInfo,
		serverStartTime: time.Now(),
	}
}

// HealthCheck 서버 상태와 빌드 정보, 동기화 실행 여부를 반환합니다.
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, response.HealthResponse{
		Status:  constants.HealthStatusHealthy,
		Running: h.runStatus.Running(),
		Uptime:  int64(time.Since(h.serverStartTime).Seconds()),
		Build:   h.buildInfo,
	})
}
