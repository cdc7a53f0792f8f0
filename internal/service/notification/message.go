package notification

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

const (
	// messageMaxLength 텔레그램 메시지 하나의 최대 길이(4096)보다 여유를 둔 분할 기준
	messageMaxLength = 3900

	maxTitleLength = 200

	titleFormat = "<b>【 %s 】</b>\n\n%s"
	errorFormat = "%s\n\n*** 오류가 발생하였습니다. ***"
)

// buildMessage 제목과 본문을 HTML 메시지로 조립합니다. 본문의 HTML 특수문자는 이스케이프됩니다.
func buildMessage(title, message string, errorOccurred bool) string {
	body := html.EscapeString(message)

	if title != "" {
		body = fmt.Sprintf(titleFormat, html.EscapeString(truncate(title, maxTitleLength)), body)
	}
	if errorOccurred {
		body = fmt.Sprintf(errorFormat, body)
	}

	return body
}

// splitMessage 메시지를 줄 단위로 묶어 limit 바이트 이하의 조각으로 나눕니다.
// 한 줄이 limit를 넘으면 UTF-8 문자 경계에서 강제로 자릅니다.
func splitMessage(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	var chunks []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for line := range strings.SplitSeq(message, "\n") {
		needed := len(line)
		if sb.Len() > 0 {
			needed++
		}

		if sb.Len()+needed <= limit {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
			continue
		}

		flush()

		for len(line) > limit {
			var chunk string
			chunk, line = safeSplit(line, limit)
			chunks = append(chunks, chunk)
		}
		sb.WriteString(line)
	}
	flush()

	return chunks
}

// safeSplit limit 바이트 이내의 UTF-8 문자 경계에서 문자열을 자릅니다.
// HTML 엔티티(&amp; 등)의 중간에서는 자르지 않습니다.
func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}

	splitIndex := limit
	for splitIndex > 0 && !utf8.RuneStart(s[splitIndex]) {
		splitIndex--
	}

	if amp := strings.LastIndexByte(s[:splitIndex], '&'); amp != -1 && amp > splitIndex-8 {
		if !strings.Contains(s[amp:splitIndex], ";") {
			splitIndex = amp
		}
	}

	if splitIndex == 0 {
		return s[:limit], s[limit:]
	}

	return s[:splitIndex], s[splitIndex:]
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
