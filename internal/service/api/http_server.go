package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/metrics"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/catalog-sync/internal/service/api/middleware"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정입니다.
type HTTPServerConfig struct {
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	AllowOrigins []string

	// RequestTimeout 요청 하나의 최대 처리 시간 (0이면 기본값 사용)
	RequestTimeout time.Duration

	// Metrics nil이 아니면 요청 지표를 기록합니다.
	Metrics *metrics.Metrics
}

// NewHTTPServer 미들웨어 체인이 구성된 Echo 인스턴스를 생성합니다. 라우트는 포함하지 않습니다.
//
// 미들웨어 적용 순서:
//
//  1. PanicRecovery: 다른 미들웨어의 panic까지 복구하도록 가장 먼저 적용
//  2. RequestID: 로그에 request_id를 남기기 위해 로깅보다 먼저 적용
//  3. Server 헤더 제거
//  4. HTTPLogger: 429/503 응답도 기록되도록 RateLimiting보다 먼저 적용
//  5. Metrics (설정된 경우)
//  6. RateLimiting: IP별 요청 제한
//  7. BodyLimit
//  8. ContextTimeout
//  9. CORS
//  10. Secure: 보안 헤더 추가
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = constants.DefaultWriteTimeout
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}
	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = constants.DefaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics.Middleware())
	}
	e.Use(appmiddleware.RateLimiting(constants.DefaultRateLimitPerSecond, constants.DefaultRateLimitBurst))
	e.Use(middleware.BodyLimit(constants.DefaultMaxBodySize))
	e.Use(middleware.ContextTimeout(timeout))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(middleware.Secure())

	return e
}
