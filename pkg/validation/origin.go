// Package validation 설정 값 형식 검증 함수를 제공합니다.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ValidateCORSOrigin origin이 'scheme://host[:port]' 형식의 CORS Origin인지 검증합니다.
// '*'는 모든 Origin 허용으로 간주하여 통과시킵니다.
//
// 경로, 쿼리, 프래그먼트, 사용자 정보를 포함하면 유효하지 않습니다.
func ValidateCORSOrigin(origin string) error {
	origin = strings.TrimSpace(origin)
	if origin == "*" {
		return nil
	}
	if origin == "" {
		return fmt.Errorf("CORS Origin은 비어있을 수 없습니다")
	}
	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("CORS Origin은 '/'로 끝날 수 없습니다 (input=%q)", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("CORS Origin이 URL 형식이 아닙니다 (input=%q): %w", origin, err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("CORS Origin은 http 또는 https만 허용됩니다 (input=%q)", origin)
	case u.Path != "", u.RawQuery != "", u.Fragment != "":
		return fmt.Errorf("CORS Origin에는 경로, 쿼리, 프래그먼트를 포함할 수 없습니다 (input=%q)", origin)
	case u.User != nil:
		return fmt.Errorf("CORS Origin에는 사용자 정보를 포함할 수 없습니다 (input=%q)", origin)
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("CORS Origin의 포트 번호가 올바르지 않습니다 (input=%q)", origin)
		}
		if err := ValidatePort(port); err != nil {
			return fmt.Errorf("CORS Origin 포트 오류 (input=%q): %w", origin, err)
		}
	}

	if err := ValidateHostname(u.Hostname()); err != nil {
		return fmt.Errorf("CORS Origin 호스트 오류 (input=%q): %w", origin, err)
	}

	return nil
}

// ValidatePort 포트 번호가 1-65535 범위인지 검증합니다.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("유효한 포트 범위(1-65535)가 아닙니다 (port=%d)", port)
	}
	return nil
}

// ValidateHostname 호스트가 localhost, IP 주소 또는 RFC 1123 호스트명인지 검증합니다.
func ValidateHostname(host string) error {
	if host == "" {
		return fmt.Errorf("호스트가 비어있습니다")
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return fmt.Errorf("호스트명은 253자를 초과할 수 없습니다 (len=%d)", len(host))
	}

	labels := strings.Split(host, ".")
	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return fmt.Errorf("%w (host=%q)", err, host)
		}
	}

	// 최상위 도메인은 숫자로만 구성될 수 없습니다.
	if strings.Trim(labels[len(labels)-1], "0123456789") == "" {
		return fmt.Errorf("최상위 도메인은 숫자로만 구성될 수 없습니다 (host=%q)", host)
	}

	return nil
}

func validateLabel(label string) error {
	if label == "" || len(label) > 63 {
		return fmt.Errorf("호스트명 레이블 길이는 1-63자여야 합니다 (label=%q)", label)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("호스트명 레이블은 하이픈으로 시작하거나 끝날 수 없습니다 (label=%q)", label)
	}

	for _, r := range label {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '-' {
			return fmt.Errorf("호스트명은 영문, 숫자, 하이픈만 사용할 수 있습니다 (label=%q)", label)
		}
	}

	return nil
}
