// Package fetcher WooCommerce REST 호출에 사용하는 HTTP 전송 계층입니다.
//
// 기본 HTTP 클라이언트(HTTPFetcher)를 여러 미들웨어로 감싸는 데코레이터 체인으로 구성됩니다:
//
//	LoggingFetcher -> MimeTypeFetcher -> StatusCodeFetcher -> MaxBytesFetcher -> HTTPFetcher
//
// 체인은 NewFromConfig로 생성합니다. 재시도는 수행하지 않으며, 실패한 요청은 즉시 에러로 반환됩니다.
package fetcher

import (
	"net/http"
)

// component 로깅용 컴포넌트 이름
const component = "fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
type Fetcher interface {
	// Do 요청을 수행합니다. 에러가 nil이면 호출자가 응답 Body를 닫아야 합니다.
	Do(req *http.Request) (*http.Response, error)

	// Close 유휴 커넥션 등 내부 리소스를 정리합니다.
	Close() error
}
