package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFinished(t *testing.T) {
	m := New()

	m.RunStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.running))

	rep := report.New(report.TriggerSchedule)
	rep.Add(
		report.ItemResult{Kind: report.KindProduct, SKU: "ABC123", Status: report.StatusCreated},
		report.ItemResult{Kind: report.KindVariation, SKU: "ABC123-M", Status: report.StatusCreated},
		report.ItemResult{Kind: report.KindVariation, SKU: "ABC123-L", Status: report.StatusFailed},
	)
	rep.Finish(nil)

	m.RunFinished(rep)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.running))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("schedule", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemsTotal.WithLabelValues("variation", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemsTotal.WithLabelValues("variation", "failed")))
	assert.Equal(t, float64(rep.FinishedAt.Unix()), testutil.ToFloat64(m.lastSuccessTime))

	t.Run("실패한 실행은 마지막 성공 시각을 바꾸지 않음", func(t *testing.T) {
		failed := report.New(report.TriggerAPI)
		failed.Finish(errors.New("상품 동기화 실패"))

		m.RunFinished(failed)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("api", "failure")))
		assert.Equal(t, float64(rep.FinishedAt.Unix()), testutil.ToFloat64(m.lastSuccessTime))
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/api/v1/runs", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "busy")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	tests := []struct {
		name   string
		method string
		path   string
		status string
	}{
		{name: "정상 응답", method: http.MethodGet, path: "/health", status: "200"},
		{name: "에러 응답", method: http.MethodPost, path: "/api/v1/runs", status: "409"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(tt.method, tt.path, tt.status)))
		})
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "catalog_sync_http_requests_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
