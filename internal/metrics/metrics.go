// Package metrics 동기화 실행과 상태 API 요청을 Prometheus 지표로 기록합니다.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog_sync"

// Metrics 애플리케이션 지표 모음입니다.
// 전역 레지스트리 대신 자체 Registry를 사용하므로 테스트마다 독립적으로 생성할 수 있습니다.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	itemsTotal      *prometheus.CounterVec
	running         prometheus.Gauge
	lastSuccessTime prometheus.Gauge

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New 지표를 생성하고 Registry에 등록합니다.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of sync runs by trigger and result",
		}, []string{"trigger", "result"}),

		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of sync runs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"trigger"}),

		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Total number of reconciled resources by kind and status",
		}, []string{"kind", "status"}),

		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while a sync run is in progress",
		}),

		lastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync run",
		}),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of status API requests",
		}, []string{"method", "path", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of status API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.itemsTotal,
		m.running,
		m.lastSuccessTime,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RunStarted 실행 시작을 기록합니다.
func (m *Metrics) RunStarted() {
	m.running.Set(1)
}

// RunFinished 완료된 실행의 결과와 항목별 집계를 기록합니다.
func (m *Metrics) RunFinished(rep *report.Report) {
	m.running.Set(0)

	result := "success"
	if !rep.Succeeded {
		result = "failure"
	}

	trigger := string(rep.Trigger)
	m.runsTotal.WithLabelValues(trigger, result).Inc()
	m.runDuration.WithLabelValues(trigger).Observe(rep.Duration().Seconds())

	for _, item := range rep.Items {
		m.itemsTotal.WithLabelValues(string(item.Kind), string(item.Status)).Inc()
	}

	if rep.Succeeded {
		m.lastSuccessTime.Set(float64(rep.FinishedAt.Unix()))
	}
}

// Handler /metrics 엔드포인트 핸들러를 반환합니다.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware 상태 API 요청 수와 처리 시간을 기록하는 Echo 미들웨어를 반환합니다.
// path 레이블에는 라우트 패턴(c.Path())을 사용하여 레이블 수가 늘어나지 않도록 합니다.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			// 에러는 바깥 미들웨어에서 응답으로 변환되므로 여기서는 에러로부터 상태 코드를 구합니다.
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			m.httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			m.httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
