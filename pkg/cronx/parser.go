// Package cronx 동기화 스케줄에 사용하는 Cron 표현식 파서를 제공합니다.
package cronx

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함한 6필드 표현식("초 분 시 일 월 요일")과
// "@daily", "@every 1h" 같은 Descriptor를 해석하는 파서를 반환합니다.
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 주어진 표현식이 StandardParser로 해석 가능한지 검사합니다.
func Validate(spec string) error {
	spec = strings.TrimSpace(spec)
	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패 ('%s'): %w", spec, err)
	}
	return nil
}
