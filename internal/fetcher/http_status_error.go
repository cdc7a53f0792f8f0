package fetcher

import (
	"fmt"
	"net/http"
)

// HTTPStatusError 원격 API가 허용되지 않은 상태 코드로 응답했을 때 반환되는 에러입니다.
//
// WooCommerce는 실패 시 {"code": "...", "message": "..."} 형태의 본문을 반환하므로,
// 호출자는 BodySnippet에서 원격 에러 메시지를 꺼내 사용할 수 있습니다.
//
//	var statusErr *HTTPStatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
//	    // ...
//	}
type HTTPStatusError struct {
	StatusCode int
	Status     string

	// URL 요청 URL (consumer_key 등 민감한 쿼리 파라미터는 마스킹됨)
	URL string

	// Header 응답 헤더 (인증 관련 헤더는 마스킹됨)
	Header http.Header

	// BodySnippet 응답 본문의 앞부분 (최대 4KB)
	BodySnippet string

	// Cause 상태 코드에 대응하는 apperrors.AppError
	Cause error
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += fmt.Sprintf(" URL: %s", e.URL)
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(", Body: %s", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}
