package fetcher

import (
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

// ErrMissingResponseContentType 응답에 Content-Type 헤더가 없을 때 반환됩니다.
var ErrMissingResponseContentType = apperrors.New(apperrors.ExecutionFailed, "응답에 Content-Type 헤더가 없습니다")

// newErrHTTPStatus HTTPStatusError의 Cause로 사용할 도메인 에러를 생성합니다.
func newErrHTTPStatus(errType apperrors.ErrorType, status, url string) error {
	return apperrors.New(errType, fmt.Sprintf("원격 API가 실패 응답을 반환했습니다: %s (%s)", status, url))
}

// NewErrResponseBodyTooLarge 응답 본문을 읽는 도중 크기 제한을 초과했을 때의 에러를 생성합니다.
func NewErrResponseBodyTooLarge(limit int64) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("응답 본문이 크기 제한(%d bytes)을 초과했습니다", limit))
}

// NewErrResponseBodyTooLargeByContentLength Content-Length 헤더로 크기 초과를 미리 감지했을 때의 에러를 생성합니다.
func NewErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("응답 본문 크기(%d bytes)가 제한(%d bytes)을 초과합니다", contentLength, limit))
}

func newErrUnsupportedMediaType(mediaType string, allowed []string) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("지원하지 않는 응답 형식입니다: '%s' (허용: %s)", mediaType, strings.Join(allowed, ", ")))
}
