package fetcher

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const redactedValue = "xxxxx"

var (
	// sensitiveExactKeys 대소문자 구분 없이 전체가 일치할 때만 마스킹하는 쿼리 파라미터 키입니다.
	// "key"를 부분 일치로 검사하면 "monkey" 같은 무해한 키까지 마스킹되므로 정확히 일치하는 경우만 처리합니다.
	sensitiveExactKeys = []string{
		"token", "auth", "key", "secret", "pass", "password", "signature",
		"access_token", "api_key", "client_secret", "client_id",

		// WooCommerce REST API 쿼리 문자열 인증
		"consumer_key", "consumer_secret",
		"oauth_consumer_key", "oauth_signature",
	}

	// sensitiveSuffixes 이 접미사로 끝나는 쿼리 파라미터 키는 모두 마스킹합니다.
	sensitiveSuffixes = []string{
		"_token", "_secret", "_password", "_sig",
	}

	sensitiveHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie"}
)

// redactHeaders 인증 관련 헤더를 마스킹한 복사본을 반환합니다.
func redactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}

	masked := h.Clone()
	for _, key := range sensitiveHeaders {
		if masked.Get(key) != "" {
			masked.Set(key, "***")
		}
	}

	return masked
}

// redactURL 사용자 인증 정보와 민감한 쿼리 파라미터 값을 마스킹한 URL 문자열을 반환합니다.
// 원본 URL은 변경하지 않습니다.
//
//	https://shop.example.com/wp-json/wc/v3/products?consumer_key=ck_1&page=2
//	-> https://shop.example.com/wp-json/wc/v3/products?consumer_key=xxxxx&page=2
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u

	if u.User != nil {
		if _, has := u.User.Password(); has {
			ru.User = url.UserPassword(u.User.Username(), redactedValue)
		} else if u.User.Username() != "" {
			ru.User = url.User(redactedValue)
		}
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, redactedValue)
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

// RedactURL redactURL의 공개 버전입니다. 다른 패키지에서 URL을 로깅할 때 사용합니다.
func RedactURL(u *url.URL) string {
	return redactURL(u)
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	if slices.Contains(sensitiveExactKeys, lowerKey) {
		return true
	}

	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lowerKey, suffix) {
			return true
		}
	}

	return false
}
