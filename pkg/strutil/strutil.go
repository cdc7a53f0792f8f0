// Package strutil 문자열 처리 유틸리티입니다.
package strutil

// Mask 로그 출력용으로 민감한 값(API 키, 봇 토큰 등)을 마스킹합니다.
//
//	""                  -> ""
//	"abc"               -> "***"
//	"ck_1234"           -> "ck_1***"
//	"ck_1234567890abcd" -> "ck_1***abcd"
func Mask(data string) string {
	if data == "" {
		return ""
	}

	if len(data) <= 3 {
		return "***"
	}

	if len(data) <= 12 {
		return data[:4] + "***"
	}

	return data[:4] + "***" + data[len(data)-4:]
}
