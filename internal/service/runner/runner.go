// Package runner 동기화 실행을 직렬화하여 CLI, 스케줄러, 상태 API가 함께 사용할 수 있도록 합니다.
package runner

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/config"
	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/darkkaiser/catalog-sync/internal/metrics"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/reconcile"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/service/notification"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

const component = "runner"

// notifyTimeout 실행 결과 알림 전송의 최대 대기 시간
const notifyTimeout = 30 * time.Second

// ErrRunInProgress 이미 동기화가 실행 중일 때 반환됩니다.
var ErrRunInProgress = apperrors.New(apperrors.Conflict, "동기화가 이미 실행 중입니다")

// Runner 동기화 실행을 한 번에 하나씩만 수행합니다.
//
// 실행 중에 들어온 요청은 대기하지 않고 ErrRunInProgress로 거부됩니다.
// 매 실행마다 카탈로그 파일을 다시 읽고, 원격 인덱스를 새로 생성합니다.
type Runner struct {
	appConfig *config.AppConfig

	store   *report.Store
	sender  notification.Sender
	metrics *metrics.Metrics

	// runMu 실행 중에는 잠겨 있습니다. TryLock으로만 획득합니다.
	runMu sync.Mutex

	// asyncWG RunAsync로 시작된 실행이 끝나기를 기다리기 위해 사용합니다.
	asyncWG sync.WaitGroup

	latestMu sync.RWMutex
	latest   *report.Report
}

// Option Runner의 선택 설정입니다.
type Option func(*Runner)

// WithMetrics 실행 결과를 Prometheus 지표로 기록합니다.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// New 새로운 Runner를 생성합니다. sender가 nil이면 알림을 보내지 않습니다.
func New(appConfig *config.AppConfig, store *report.Store, sender notification.Sender, opts ...Option) *Runner {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}
	if store == nil {
		panic("report.Store는 필수입니다")
	}
	if sender == nil {
		sender = notification.Discard
	}

	r := &Runner{
		appConfig: appConfig,
		store:     store,
		sender:    sender,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run 동기화를 한 번 실행하고 완료될 때까지 기다립니다. 진행 상황은 progress에 출력됩니다.
//
// 다른 실행이 진행 중이면 ErrRunInProgress를 반환합니다. 그 외의 경우 실행 결과(Report)는 항상 반환되며,
// 실행이 실패했으면 실패 원인이 함께 반환됩니다.
func (r *Runner) Run(ctx context.Context, trigger report.Trigger, progress io.Writer) (*report.Report, error) {
	if !r.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.runMu.Unlock()

	rep := report.New(trigger)
	err := r.execute(ctx, rep, progress)

	return rep, err
}

// RunAsync 동기화를 백그라운드에서 시작하고 실행 id를 즉시 반환합니다.
// 다른 실행이 진행 중이면 ErrRunInProgress를 반환합니다.
func (r *Runner) RunAsync(ctx context.Context, trigger report.Trigger) (string, error) {
	if !r.runMu.TryLock() {
		return "", ErrRunInProgress
	}

	rep := report.New(trigger)

	r.asyncWG.Add(1)
	go func() {
		defer r.asyncWG.Done()
		defer r.runMu.Unlock()

		_ = r.execute(ctx, rep, io.Discard)
	}()

	return rep.RunID, nil
}

// Wait RunAsync로 시작된 실행이 모두 끝날 때까지 기다립니다.
func (r *Runner) Wait() {
	r.asyncWG.Wait()
}

// Running 동기화가 실행 중인지 여부를 반환합니다.
func (r *Runner) Running() bool {
	if r.runMu.TryLock() {
		r.runMu.Unlock()
		return false
	}
	return true
}

// Latest 마지막 실행 결과를 반환합니다. 이 프로세스에서 아직 실행한 적이 없으면 저장소에서 읽습니다.
func (r *Runner) Latest() (*report.Report, error) {
	r.latestMu.RLock()
	latest := r.latest
	r.latestMu.RUnlock()

	if latest != nil {
		return latest, nil
	}
	return r.store.Latest()
}

func (r *Runner) execute(ctx context.Context, rep *report.Report, progress io.Writer) error {
	logger := applog.WithComponentAndFields(component, applog.Fields{
		"run_id":  rep.RunID,
		"trigger": rep.Trigger,
	})
	logger.Info("동기화 시작")

	if r.metrics != nil {
		r.metrics.RunStarted()
	}

	err := r.sync(ctx, rep, progress)
	rep.Finish(err)

	if r.metrics != nil {
		r.metrics.RunFinished(rep)
	}

	fields := applog.Fields{
		"created":  rep.Counts.Created,
		"updated":  rep.Counts.Updated,
		"failed":   rep.Counts.Failed,
		"skipped":  rep.Counts.Skipped,
		"duration": rep.Duration().String(),
	}
	if err != nil {
		fields["error"] = err
		logger.WithFields(fields).Error("동기화 실패")
	} else {
		logger.WithFields(fields).Info("동기화 완료")
	}

	if saveErr := r.store.Save(rep); saveErr != nil {
		logger.WithField("error", saveErr).Error("실행 결과 저장 실패")
	}

	r.latestMu.Lock()
	r.latest = rep
	r.latestMu.Unlock()

	// 실행 컨텍스트가 취소된 경우에도 결과 알림은 보냅니다.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if notifyErr := notification.NotifyReport(notifyCtx, r.sender, rep); notifyErr != nil {
		logger.WithField("error", notifyErr).Warn("실행 결과 알림 전송 실패")
	}

	return err
}

func (r *Runner) sync(ctx context.Context, rep *report.Report, progress io.Writer) error {
	products, err := catalog.Load(r.appConfig.Catalog.File)
	if err != nil {
		return err
	}

	remote, err := r.newRemote()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := remote.Close(); closeErr != nil {
			applog.WithComponentAndFields(component, applog.Fields{"error": closeErr}).Warn("WooCommerce 클라이언트 종료 실패")
		}
	}()

	rec := reconcile.New(remote, reconcileOptions(r.appConfig, progress))

	return rec.Run(ctx, products, rep)
}

func (r *Runner) newRemote() (*woocommerce.Client, error) {
	wc := r.appConfig.WooCommerce

	timeout, err := wc.RequestTimeout()
	if err != nil {
		return nil, err
	}

	f := fetcher.NewFromConfig(fetcher.Config{
		Timeout:            timeout,
		UserAgent:          config.AppName + "/" + version.Get().Version,
		AllowedStatusCodes: []int{http.StatusOK, http.StatusCreated},
		AllowedMimeTypes:   []string{"application/json"},
		MaxBytes:           wc.MaxResponseBytes,
	})

	c, err := woocommerce.New(woocommerce.Config{
		BaseURL:        wc.BaseURL,
		ConsumerKey:    wc.ConsumerKey,
		ConsumerSecret: wc.ConsumerSecret,
		APIVersion:     wc.APIVersion,
		PerPage:        wc.PerPage,
	}, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return c, nil
}

func reconcileOptions(appConfig *config.AppConfig, progress io.Writer) reconcile.Options {
	terms := make([]reconcile.AttributeTermsSource, 0, len(appConfig.Sync.AttributeTerms))
	for _, t := range appConfig.Sync.AttributeTerms {
		terms = append(terms, reconcile.AttributeTermsSource{
			Name:        t.Name,
			AttributeID: t.AttributeID,
			File:        t.File,
		})
	}

	return reconcile.Options{
		ImageBaseURL:          appConfig.Catalog.ImageBaseURL,
		CreateCategories:      appConfig.Sync.CreateCategories,
		FailOnMissingCategory: appConfig.Sync.FailOnMissingCategory,
		AttributeTerms:        terms,
		DerivedField: reconcile.DerivedFieldOptions{
			Enabled: appConfig.Sync.Brand.Enabled,
			Field:   appConfig.Sync.Brand.Field,
			Mapping: appConfig.Sync.Brand.Mapping,
		},
		Progress: progress,
	}
}
