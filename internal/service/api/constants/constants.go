// Package constants 상태 API 서비스 전반에서 공유하는 상수를 정의합니다.
package constants

import "time"

// 로그 component 필드 값
const (
	ComponentService      = "api.service"
	ComponentHandler      = "api.handler"
	ComponentMiddleware   = "api.middleware"
	ComponentErrorHandler = "api.error_handler"
)

// HTTP 서버 기본값
const (
	DefaultReadTimeout       = 10 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultRequestTimeout 요청 하나의 최대 처리 시간입니다. 동기화는 비동기로 시작되므로 길 필요가 없습니다.
	DefaultRequestTimeout = 30 * time.Second

	DefaultRateLimitPerSecond = 5
	DefaultRateLimitBurst     = 10

	// DefaultMaxBodySize 실행 요청은 본문을 사용하지 않으므로 작게 제한합니다.
	DefaultMaxBodySize = "64K"
)

// 응답 메시지
const (
	ErrMsgNotFound        = "요청한 리소스를 찾을 수 없습니다"
	ErrMsgInternalServer  = "내부 서버 오류가 발생했습니다"
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgNoReport        = "아직 완료된 동기화 실행이 없습니다"
	ErrMsgRunInProgress   = "동기화가 이미 실행 중입니다"

	MsgRunAccepted = "동기화 실행을 시작했습니다"
)

// 헬스 체크 상태
const (
	HealthStatusHealthy = "healthy"
)

// 로그 메시지
const (
	LogMsgServiceStarting          = "상태 API 서비스 시작중..."
	LogMsgServiceStarted           = "상태 API 서비스 시작됨"
	LogMsgServiceAlreadyStarted    = "상태 API 서비스가 이미 시작됨"
	LogMsgServiceStopping          = "상태 API 서비스 중지중..."
	LogMsgServiceStopped           = "상태 API 서비스 중지됨"
	LogMsgServiceUnexpectedExit    = "HTTP 서버가 예기치 않게 종료되었습니다"
	LogMsgHTTPServerStarting       = "HTTP 서버 시작"
	LogMsgHTTPServerStopped        = "HTTP 서버 중지됨"
	LogMsgHTTPServerFatalError     = "HTTP 서버를 구성하는 중에 치명적인 오류가 발생하였습니다"
	LogMsgHTTPServerShutdownError  = "HTTP 서버 종료 중 오류가 발생하였습니다"
	LogMsgHTTP5xxServerError       = "HTTP 5xx: 서버 내부 오류"
	LogMsgHTTP4xxClientError       = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgRunRequested             = "API를 통한 동기화 실행 요청"
	LogMsgRunRejected              = "동기화가 이미 실행 중이어서 요청을 거부합니다"
	LogMsgPanicRecovered           = "PANIC RECOVERED"
	LogMsgRateLimitExceeded        = "Rate limit 초과"
	LogMsgHTTPRequest              = "HTTP 요청"
	LogMsgLatestReportLookupFailed = "마지막 실행 결과 조회에 실패했습니다"
)
