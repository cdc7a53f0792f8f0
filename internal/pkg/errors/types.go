package errors

import "strconv"

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 분류되지 않은 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 파일/디스크/설정 소스 등 실행 환경의 오류
	System

	// Unauthorized 인증 실패 (consumer_key/consumer_secret 불일치 등)
	Unauthorized

	// Forbidden 권한 없음
	Forbidden

	// InvalidInput 잘못된 입력값 (카탈로그 필드 누락, 설정값 오류 등)
	InvalidInput

	// Conflict 리소스 충돌 (동기화 작업 중복 실행 등)
	Conflict

	// NotFound 참조한 리소스(카테고리, 상품 등)를 찾을 수 없음
	NotFound

	// ExecutionFailed 원격 API 호출 등 작업 수행 실패
	ExecutionFailed

	// ParsingFailed JSON 등 데이터 파싱 실패
	ParsingFailed

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 원격 서비스 일시적 사용 불가 (5xx, 네트워크 장애 등)
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	Unauthorized:    "Unauthorized",
	Forbidden:       "Forbidden",
	InvalidInput:    "InvalidInput",
	Conflict:        "Conflict",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
}

// String ErrorType의 이름을 반환합니다. 정의되지 않은 값은 "ErrorType(N)" 형식으로 반환합니다.
func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}
