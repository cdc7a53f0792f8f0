// Package handler 상태 API v1 엔드포인트(동기화 실행 요청, 마지막 실행 결과 조회) 핸들러를 제공합니다.
package handler

import (
	"context"
	"net/http"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/httputil"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
)

// RunController 동기화 실행 요청과 결과 조회를 담당합니다.
type RunController interface {
	RunAsync(ctx context.Context, trigger report.Trigger) (string, error)
	Latest() (*report.Report, error)
}

// Handler v1 API 핸들러입니다.
type Handler struct {
	// runCtx 비동기 실행에 전달할 Context입니다.
	// 요청 Context는 응답과 함께 끝나므로 서비스 종료 Context를 사용합니다.
	runCtx context.Context

	runController RunController
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(runCtx context.Context, runController RunController) *Handler {
	if runController == nil {
		panic("RunController는 필수입니다")
	}

	return &Handler{
		runCtx:        runCtx,
		runController: runController,
	}
}

// TriggerRun 동기화를 백그라운드에서 시작하고 202 Accepted로 실행 id를 반환합니다.
// 이미 실행 중이면 409 Conflict를 반환합니다.
func (h *Handler) TriggerRun(c echo.Context) error {
	fields := applog.Fields{
		"remote_ip":  c.RealIP(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}

	runID, err := h.runController.RunAsync(h.runCtx, report.TriggerAPI)
	if err != nil {
		if apperrors.Is(err, apperrors.Conflict) {
			applog.WithComponentAndFields(constants.ComponentHandler, fields).Warn(constants.LogMsgRunRejected)
			return httputil.NewConflictError(constants.ErrMsgRunInProgress)
		}
		return httputil.NewInternalServerError(constants.ErrMsgInternalServer)
	}

	fields["run_id"] = runID
	applog.WithComponentAndFields(constants.ComponentHandler, fields).Info(constants.LogMsgRunRequested)

	return httputil.Accepted(c, runID, constants.MsgRunAccepted)
}

// LatestRun 마지막 실행 결과를 반환합니다. 아직 실행 결과가 없으면 404를 반환합니다.
func (h *Handler) LatestRun(c echo.Context) error {
	rep, err := h.runController.Latest()
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return httputil.NewNotFoundError(constants.ErrMsgNoReport)
		}

		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgLatestReportLookupFailed)

		return httputil.NewInternalServerError(constants.ErrMsgInternalServer)
	}

	return c.JSON(http.StatusOK, rep)
}
