package fetcher

import (
	"io"
	"net/http"
	"slices"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

// maxBodySnippetBytes 에러에 포함할 응답 본문의 최대 크기
const maxBodySnippetBytes = 4096

// StatusCodeFetcher 허용 목록에 없는 상태 코드의 응답을 HTTPStatusError로 바꾸는 미들웨어입니다.
//
// WooCommerce의 실패 응답 본문({"code": ..., "message": ...})은 앞부분만 BodySnippet에 담기고,
// 응답 Body는 여기서 닫히므로 호출자가 닫을 필요가 없습니다.
type StatusCodeFetcher struct {
	delegate Fetcher
	allowed  []int
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher allowed가 비어있으면 200 OK만 허용합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowed ...int) *StatusCodeFetcher {
	if len(allowed) == 0 {
		allowed = []int{http.StatusOK}
	}

	return &StatusCodeFetcher{
		delegate: delegate,
		allowed:  slices.Clone(allowed),
	}
}

func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if slices.Contains(f.allowed, resp.StatusCode) {
		return resp, nil
	}

	defer drainAndCloseBody(resp.Body)

	return nil, newHTTPStatusError(resp)
}

func (f *StatusCodeFetcher) Close() error {
	return f.delegate.Close()
}

// newHTTPStatusError 응답 URL과 헤더의 인증 정보는 마스킹하여 담습니다.
func newHTTPStatusError(resp *http.Response) *HTTPStatusError {
	var urlStr string
	if resp.Request != nil && resp.Request.URL != nil {
		urlStr = redactURL(resp.Request.URL)
	}

	var snippet string
	if resp.Body != nil {
		if data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippetBytes)); err == nil {
			snippet = string(data)
		}
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         urlStr,
		Header:      redactHeaders(resp.Header),
		BodySnippet: snippet,
		Cause:       newErrHTTPStatus(statusErrorType(resp.StatusCode), resp.Status, urlStr),
	}
}

// statusErrorType HTTP 상태 코드를 도메인 에러 타입으로 변환합니다.
func statusErrorType(statusCode int) apperrors.ErrorType {
	switch {
	case statusCode == http.StatusBadRequest:
		// WooCommerce는 SKU 중복, term_exists, 잘못된 파라미터를 모두 400으로 응답합니다.
		return apperrors.InvalidInput
	case statusCode == http.StatusUnauthorized:
		// consumer_key/consumer_secret 불일치
		return apperrors.Unauthorized
	case statusCode == http.StatusForbidden:
		return apperrors.Forbidden
	case statusCode == http.StatusNotFound:
		return apperrors.NotFound
	case statusCode == http.StatusConflict:
		return apperrors.Conflict
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusTooManyRequests, statusCode >= 500:
		return apperrors.Unavailable
	default:
		return apperrors.ExecutionFailed
	}
}
