package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdleTTL 이 시간 동안 요청이 없던 클라이언트의 Limiter는 삭제됩니다.
const limiterIdleTTL = 10 * time.Minute

// clientLimiters 클라이언트 IP별 rate.Limiter 저장소입니다.
type clientLimiters struct {
	store *cache.Cache
	limit rate.Limit
	burst int
}

func newClientLimiters(requestsPerSecond, burst int, idleTTL time.Duration) *clientLimiters {
	return &clientLimiters{
		store: cache.New(idleTTL, idleTTL/2),
		limit: rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// get IP의 Limiter를 반환하며 조회할 때마다 만료 시간을 연장합니다.
// 처음 보는 IP에 동시에 요청이 들어와도 Add가 원자적이므로 모두 같은 Limiter를 받습니다.
func (c *clientLimiters) get(ip string) *rate.Limiter {
	if v, ok := c.store.Get(ip); ok {
		c.store.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(c.limit, c.burst)
	if err := c.store.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		if v, ok := c.store.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}

	return limiter
}

// RateLimiting IP 기반 Token Bucket 요청 제한 미들웨어를 반환합니다.
// 제한을 초과하면 다음 토큰까지 남은 초를 Retry-After 헤더에 담아 429 Too Many Requests를 반환합니다.
//
// requestsPerSecond 또는 burst가 0 이하이면 panic이 발생합니다.
func RateLimiting(requestsPerSecond int, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic("[RateLimiting] requestsPerSecond는 양수여야 합니다")
	}
	if burst <= 0 {
		panic("[RateLimiting] burst는 양수여야 합니다")
	}

	limiters := newClientLimiters(requestsPerSecond, burst, limiterIdleTTL)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			r := limiters.get(ip).Reserve()
			if delay := r.Delay(); delay > 0 {
				// 거절한 요청은 토큰을 소비하지 않습니다.
				r.Cancel()

				applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
					"remote_ip":   ip,
					"path":        c.Request().URL.Path,
					"method":      c.Request().Method,
					"retry_after": delay.String(),
				}).Warn(constants.LogMsgRateLimitExceeded)

				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))

				return ErrRateLimitExceeded
			}

			return next(c)
		}
	}
}
