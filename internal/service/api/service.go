// Package api 동기화 실행 상태를 조회하고 실행을 요청하는 HTTP 상태 API 서비스를 제공합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/config"
	"github.com/darkkaiser/catalog-sync/internal/metrics"
	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/catalog-sync/internal/service/api/v1"
	v1handler "github.com/darkkaiser/catalog-sync/internal/service/api/v1/handler"
	"github.com/darkkaiser/catalog-sync/internal/service/notification"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
)

// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
const shutdownTimeout = 5 * time.Second

// notifyTitle 서버 오류 알림 제목
const notifyTitle = "상태 API"

// Runner 상태 API가 사용하는 동기화 실행기 기능입니다.
type Runner interface {
	v1handler.RunController
	system.RunStatus
}

// Service 상태 API HTTP 서버의 생명주기를 관리합니다.
//
// Start로 시작하면 별도 고루틴에서 서버를 실행하고, serviceStopCtx가 취소되면
// Graceful Shutdown 후 serviceStopWG.Done()을 호출합니다.
type Service struct {
	appConfig *config.AppConfig

	runner  Runner
	sender  notification.Sender
	metrics *metrics.Metrics

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex

	// listenAddr 서버가 바인딩할 주소입니다. 테스트에서 임의 포트를 사용하기 위해 필드로 둡니다.
	listenAddr string

	server *echo.Echo
}

// NewService Service 인스턴스를 생성합니다.
// sender가 nil이면 알림을 보내지 않고, m이 nil이면 /metrics 엔드포인트를 제공하지 않습니다.
func NewService(appConfig *config.AppConfig, runner Runner, sender notification.Sender, m *metrics.Metrics, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}
	if runner == nil {
		panic("Runner는 필수입니다")
	}
	if sender == nil {
		sender = notification.Discard
	}

	return &Service{
		appConfig: appConfig,

		runner:  runner,
		sender:  sender,
		metrics: m,

		buildInfo: buildInfo,

		listenAddr: fmt.Sprintf(":%d", appConfig.StatusAPI.ListenPort),
	}
}

// Start 상태 API 서비스를 시작합니다. 이 함수는 즉시 반환되며 서버는 고루틴에서 실행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true
	s.server = s.setupServer(serviceStopCtx)

	go s.runServiceLoop(serviceStopCtx, serviceStopWG, s.server)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup, e *echo.Echo) {
	defer serviceStopWG.Done()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer 핸들러와 미들웨어, 라우트를 구성합니다.
// 비동기 실행은 서비스 종료 Context를 사용하므로 종료 신호가 오면 진행 중인 실행도 취소됩니다.
func (s *Service) setupServer(serviceStopCtx context.Context) *echo.Echo {
	systemHandler := system.NewHandler(s.runner, s.buildInfo)
	v1Handler := v1handler.NewHandler(serviceStopCtx, s.runner)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.appConfig.Debug,
		AllowOrigins: s.appConfig.StatusAPI.AllowOrigins,
		Metrics:      s.metrics,
	})

	SetupRoutes(e, systemHandler)
	v1.SetupRoutes(e, v1Handler)

	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	return e
}

// startHTTPServer 서버를 시작하고, 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"addr": s.listenAddr,
	}).Info(constants.LogMsgHTTPServerStarting)

	s.handleServerError(e.Start(s.listenAddr))
}

// handleServerError 서버 종료 원인을 기록합니다. Graceful Shutdown이 아닌 경우 알림을 보냅니다.
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgHTTPServerStopped)
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"addr":  s.listenAddr,
		"error": err,
	}).Error(constants.LogMsgHTTPServerFatalError)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if notifyErr := s.sender.Notify(ctx, notifyTitle, fmt.Sprintf("%s\n\n%s", constants.LogMsgHTTPServerFatalError, err), true); notifyErr != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": notifyErr,
		}).Warn("서버 오류 알림 전송에 실패했습니다")
	}
}

// waitForShutdown 종료 신호 또는 서버 조기 종료를 기다린 뒤 서비스를 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)

	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 서버가 먼저 종료된 경우
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)
		s.cleanup()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}

