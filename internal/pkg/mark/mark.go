// Package mark 알림 메시지와 콘솔 요약에 사용하는 이모지 상수를 중앙 관리하는 패키지입니다.
package mark

// Mark 이모지 상수를 위한 타입입니다.
type Mark string

const (
	// 생성
	New Mark = "🆕"

	// 수정
	Modified Mark = "🔁"

	// 건너뜀 (변경 없음)
	Skipped Mark = "⏭️"

	// 성공적으로 완료
	Done Mark = "✅"

	// 실패/오류
	Alert Mark = "🚨"
)

// Values 정의된 모든 마크를 반환합니다.
func Values() []Mark {
	return []Mark{New, Modified, Skipped, Done, Alert}
}

// WithSpace 마크(이모지) 앞에 구분용 공백을 추가하여 반환합니다.
func (m Mark) WithSpace() string {
	if m == "" {
		return ""
	}
	return " " + string(m)
}

// String 마크의 순수 이모지 값을 문자열로 반환합니다.
func (m Mark) String() string {
	return string(m)
}
