package fetcher

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "catalog-sync/1.0"
)

// HTTPFetcher net/http 클라이언트로 실제 요청을 전송하는 Fetcher입니다.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	h := &HTTPFetcher{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Do 요청에 User-Agent가 없으면 기본값을 지정하여 전송합니다.
//
// 전송 실패 시 net/http가 반환하는 *url.Error는 요청 URL 전체를 담고 있으므로,
// 쿼리 문자열의 인증 정보(consumer_key 등)가 에러 메시지로 새지 않도록 URL을 마스킹합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" && h.userAgent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(req.URL)
		}
	}
	return resp, err
}

// Close 유휴 커넥션을 정리합니다.
func (h *HTTPFetcher) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
