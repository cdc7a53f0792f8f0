package fetcher

import (
	"mime"
	"net/http"
	"slices"
	"strings"
)

// MimeTypeFetcher 응답의 Content-Type이 허용 목록에 있는지 검사하는 미들웨어입니다.
//
// 원격 상점이 점검 중이거나 보안 플러그인이 요청을 가로채면 200 OK와 함께 HTML 페이지가
// 반환되는 경우가 있어, JSON 응답만 통과시키기 위해 사용합니다.
type MimeTypeFetcher struct {
	delegate Fetcher

	allowedMimeTypes []string

	// allowMissingContentType true이면 Content-Type 헤더가 없는 응답을 허용합니다.
	allowMissingContentType bool
}

var _ Fetcher = (*MimeTypeFetcher)(nil)

// NewMimeTypeFetcher allowedMimeTypes가 비어있으면 검사를 하지 않고 delegate를 그대로 반환합니다.
func NewMimeTypeFetcher(delegate Fetcher, allowedMimeTypes []string, allowMissingContentType bool) Fetcher {
	if len(allowedMimeTypes) == 0 {
		return delegate
	}

	normalized := make([]string, 0, len(allowedMimeTypes))
	for _, t := range allowedMimeTypes {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(t)))
	}

	return &MimeTypeFetcher{
		delegate:                delegate,
		allowedMimeTypes:        normalized,
		allowMissingContentType: allowMissingContentType,
	}
}

func (f *MimeTypeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		if f.allowMissingContentType {
			return resp, nil
		}
		drainAndCloseBody(resp.Body)
		return nil, ErrMissingResponseContentType
	}

	mediaType, _, parseErr := mime.ParseMediaType(contentType)
	if parseErr != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	mediaType = strings.ToLower(mediaType)

	if !slices.Contains(f.allowedMimeTypes, mediaType) {
		drainAndCloseBody(resp.Body)
		return nil, newErrUnsupportedMediaType(mediaType, f.allowedMimeTypes)
	}

	return resp, nil
}

func (f *MimeTypeFetcher) Close() error {
	return f.delegate.Close()
}
