package fetcher

import (
	"net/http"
	"time"
)

// Option HTTPFetcher 설정 함수입니다.
type Option func(*HTTPFetcher)

// WithTimeout 요청 전체(연결, 전송, 응답 수신)의 최대 소요 시간을 설정합니다.
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		if timeout > 0 {
			h.client.Timeout = timeout
		}
	}
}

// WithUserAgent 요청에 User-Agent가 없을 때 사용할 값을 설정합니다.
func WithUserAgent(ua string) Option {
	return func(h *HTTPFetcher) {
		h.userAgent = ua
	}
}

// WithTransport 내부 http.Client의 Transport를 교체합니다. (테스트, 프록시 등)
func WithTransport(transport http.RoundTripper) Option {
	return func(h *HTTPFetcher) {
		h.client.Transport = transport
	}
}
