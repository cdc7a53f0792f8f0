package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/catalog-sync/internal/config"
	"github.com/darkkaiser/catalog-sync/internal/metrics"
	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/service"
	"github.com/darkkaiser/catalog-sync/internal/service/api"
	"github.com/darkkaiser/catalog-sync/internal/service/notification"
	"github.com/darkkaiser/catalog-sync/internal/service/runner"
	"github.com/darkkaiser/catalog-sync/internal/service/scheduler"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

const component = "main"

const banner = `
--------------------------------------------------------------------------------
  catalog-sync %s
  JSON catalog -> WooCommerce REST
--------------------------------------------------------------------------------
`

func main() {
	os.Exit(run())
}

func run() int {
	// 1. 설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 설정 로드 실패: %v\n", err)
		return 1
	}

	// 2. 로그 시스템 초기화
	logOpts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		return 1
	}
	defer appLogCloser.Close()

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields(component, applog.Fields{
		"version": buildInfo.String(),
		"daemon":  appConfig.Daemon(),
	}).Info("catalog-sync 초기화 시작")

	store, err := report.NewStore(appConfig.Report.Dir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("실행 결과 저장소 초기화 실패")
		return 1
	}

	sender, err := newSender(appConfig)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("알림 초기화 실패")
		return 1
	}

	m := metrics.New()
	syncRunner := runner.New(appConfig, store, sender, runner.WithMetrics(m))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !appConfig.Daemon() {
		return runOnce(ctx, syncRunner, os.Stdout)
	}

	return runDaemon(ctx, newServices(appConfig, syncRunner, sender, m, buildInfo), syncRunner)
}

// newSender 텔레그램 알림이 활성화되어 있으면 텔레그램 Sender를, 아니면 아무 것도 보내지 않는 Sender를 반환합니다.
func newSender(appConfig *config.AppConfig) (notification.Sender, error) {
	if !appConfig.Notifier.Telegram.Enabled {
		return notification.Discard, nil
	}
	return notification.NewTelegram(appConfig.Notifier.Telegram, appConfig.Debug)
}

// newServices 설정에서 활성화된 상주 서비스 목록을 구성합니다.
func newServices(appConfig *config.AppConfig, syncRunner *runner.Runner, sender notification.Sender, m *metrics.Metrics, buildInfo version.Info) []service.Service {
	var services []service.Service

	if appConfig.Schedule.Enabled {
		services = append(services, scheduler.NewService(appConfig.Schedule.TimeSpec, syncRunner))
	}
	if appConfig.StatusAPI.Enabled {
		services = append(services, api.NewService(appConfig, syncRunner, sender, m, buildInfo))
	}

	return services
}

type onceRunner interface {
	Run(ctx context.Context, trigger report.Trigger, progress io.Writer) (*report.Report, error)
}

// runOnce 동기화를 한 번 실행하고 종료 코드를 반환합니다. 진행 상황은 progress에 출력합니다.
func runOnce(ctx context.Context, r onceRunner, progress io.Writer) int {
	rep, err := r.Run(ctx, report.TriggerCLI, progress)
	if rep != nil {
		fmt.Fprintln(progress, rep.Summary())
	}

	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("동기화 실패")
		return 1
	}

	return 0
}

type waiter interface {
	Wait()
}

// runDaemon 서비스를 시작하고 ctx가 취소될 때까지(SIGINT, SIGTERM) 대기한 뒤
// 서비스와 진행 중인 비동기 실행이 모두 끝나면 반환합니다.
func runDaemon(ctx context.Context, services []service.Service, asyncRuns waiter) int {
	serviceStopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serviceStopWG := &sync.WaitGroup{}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()
			asyncRuns.Wait()

			return 1
		}
	}

	applog.WithComponent(component).Info("catalog-sync 가동 완료")

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("종료 신호를 수신하였습니다")

	serviceStopWG.Wait()
	asyncRuns.Wait()

	return 0
}
