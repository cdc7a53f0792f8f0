// Package notification 동기화 실행 결과를 운영자에게 알립니다.
package notification

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/report"
)

const component = "notification"

// Sender 알림 메시지를 전송합니다.
type Sender interface {
	// Notify 제목과 본문으로 구성된 메시지를 전송합니다. errorOccurred가 true이면 오류 알림으로 강조됩니다.
	Notify(ctx context.Context, title, message string, errorOccurred bool) error
}

// Discard 아무것도 전송하지 않는 Sender입니다. 알림이 비활성화된 경우 사용됩니다.
var Discard Sender = discard{}

type discard struct{}

func (discard) Notify(context.Context, string, string, bool) error { return nil }

// NotifyReport 실행 결과 요약을 전송합니다. 실행이 실패했으면 오류 알림으로 전송됩니다.
func NotifyReport(ctx context.Context, s Sender, r *report.Report) error {
	return s.Notify(ctx, "카탈로그 동기화", r.Summary(), !r.Succeeded)
}
