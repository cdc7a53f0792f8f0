package fetcher

import (
	"net/http"
	"time"
)

// Config Fetcher 체인 구성 설정입니다.
type Config struct {
	// Timeout 요청 전체 타임아웃 (0 이하이면 기본값 30초)
	Timeout time.Duration

	// UserAgent 요청에 User-Agent가 없을 때 사용할 값
	UserAgent string

	// Transport 테스트 등에서 HTTP 전송 계층을 교체할 때 사용합니다.
	Transport http.RoundTripper

	// AllowedStatusCodes 비어있으면 200 OK만 허용합니다.
	AllowedStatusCodes []int

	// AllowedMimeTypes 비어있으면 Content-Type을 검사하지 않습니다.
	AllowedMimeTypes []string

	// MaxBytes 응답 본문 크기 제한 (NoLimit: 제한 없음, 0 이하: 기본값 10MB)
	MaxBytes int64

	DisableLogging bool
}

// NewFromConfig 설정에 따라 Fetcher 체인을 구성합니다.
//
//	LoggingFetcher -> MimeTypeFetcher -> StatusCodeFetcher -> MaxBytesFetcher -> HTTPFetcher
//
// 상태 코드 검사가 크기 제한보다 바깥에 위치하므로, 실패 응답의 본문 일부(4KB)를 읽을 때도 크기 제한이 적용됩니다.
func NewFromConfig(cfg Config) Fetcher {
	opts := []Option{WithTimeout(cfg.Timeout)}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.Transport != nil {
		opts = append(opts, WithTransport(cfg.Transport))
	}

	var f Fetcher = NewHTTPFetcher(opts...)

	f = NewMaxBytesFetcher(f, cfg.MaxBytes)
	f = NewStatusCodeFetcher(f, cfg.AllowedStatusCodes...)
	f = NewMimeTypeFetcher(f, cfg.AllowedMimeTypes, false)

	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f
}
