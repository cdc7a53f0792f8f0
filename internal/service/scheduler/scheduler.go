// Package scheduler 설정된 Cron 스케줄에 맞춰 카탈로그 동기화를 실행합니다.
package scheduler

import (
	"context"
	"io"
	"sync"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/service"
	"github.com/darkkaiser/catalog-sync/pkg/cronx"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// syncRunner 동기화를 실행하는 인터페이스입니다. *runner.Runner가 구현합니다.
type syncRunner interface {
	Run(ctx context.Context, trigger report.Trigger, progress io.Writer) (*report.Report, error)
}

// Scheduler TimeSpec에 맞춰 동기화를 실행하는 서비스입니다.
type Scheduler struct {
	timeSpec string

	cron *cron.Cron

	runner syncRunner

	running   bool
	runningMu sync.Mutex
}

var _ service.Service = (*Scheduler)(nil)

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(timeSpec string, runner syncRunner) *Scheduler {
	if runner == nil {
		panic("Runner는 필수입니다")
	}

	return &Scheduler{
		timeSpec: timeSpec,
		runner:   runner,
	}
}

// Start 스케줄러를 시작합니다. serviceStopCtx가 취소되면 실행 중인 동기화가 끝나기를 기다린 뒤 종료합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Scheduler 서비스 시작중...")

	if s.runner == nil {
		serviceStopWG.Done()
		return ErrRunnerNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: 동기화 중 panic이 발생해도 스케줄러는 계속 동작
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if _, err := c.AddFunc(s.timeSpec, func() { s.runSync(serviceStopCtx) }); err != nil {
		serviceStopWG.Done()
		return newErrInvalidCronSpec(s.timeSpec, err)
	}

	s.cron = c
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": s.timeSpec,
		"next_run":  s.cron.Entries()[0].Next,
	}).Info("Scheduler 서비스 시작됨")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 스케줄러를 중지하고 실행 중인 동기화가 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 서비스 중지중...")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 중지됨")
}

// runSync 동기화를 한 번 실행합니다.
//
// 서비스 종료 컨텍스트를 그대로 전달하므로 종료 신호를 받으면 진행 중인 동기화는 다음 상품으로
// 넘어가기 전에 중단됩니다. 실행 결과 알림은 Runner가 전송합니다.
func (s *Scheduler) runSync(serviceStopCtx context.Context) {
	rep, err := s.runner.Run(serviceStopCtx, report.TriggerSchedule, io.Discard)
	if err != nil {
		if apperrors.Is(err, apperrors.Conflict) {
			applog.WithComponent(component).Warn("다른 동기화가 실행 중이어서 이번 스케줄은 건너뜁니다")
			return
		}

		fields := applog.Fields{"error": err}
		if rep != nil {
			fields["run_id"] = rep.RunID
		}
		applog.WithComponentAndFields(component, fields).Error("스케줄 동기화 실패")
	}
}
