// Package report 동기화 실행 결과(Report)와 항목별 처리 결과(ItemResult)를 정의하고 파일로 보관합니다.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/pkg/mark"
	"github.com/google/uuid"
)

// Trigger 실행을 요청한 주체입니다.
type Trigger string

const (
	TriggerCLI      Trigger = "cli"
	TriggerSchedule Trigger = "schedule"
	TriggerAPI      Trigger = "api"
)

// Kind 처리 대상 리소스의 종류입니다.
type Kind string

const (
	KindCategory       Kind = "category"
	KindProduct        Kind = "product"
	KindVariation      Kind = "variation"
	KindDerivedField   Kind = "derived_field"
	KindAttributeTerms Kind = "attribute_terms"
)

// Status 항목별 처리 결과입니다.
type Status string

const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ItemResult 리소스 하나에 대한 처리 결과입니다.
type ItemResult struct {
	Kind Kind   `json:"kind"`
	SKU  string `json:"sku,omitempty"`

	// Name 카테고리 이름, 속성 이름 등 SKU가 없는 리소스의 식별자
	Name string `json:"name,omitempty"`

	RemoteID int64  `json:"remote_id,omitempty"`
	Status   Status `json:"status"`

	// Reason 건너뛴 사유 또는 실패 원인
	Reason string `json:"reason,omitempty"`
}

// Failed 실패한 항목을 생성합니다.
func Failed(kind Kind, sku string, err error) ItemResult {
	return ItemResult{Kind: kind, SKU: sku, Status: StatusFailed, Reason: err.Error()}
}

// Counts 상태별 항목 수입니다.
type Counts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Total 전체 항목 수를 반환합니다.
func (c Counts) Total() int {
	return c.Created + c.Updated + c.Failed + c.Skipped
}

// Report 한 번의 동기화 실행 결과입니다.
type Report struct {
	RunID      string    `json:"run_id"`
	Trigger    Trigger   `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Succeeded 실행이 중단 없이 끝났는지 여부입니다. 변형 상품 일부가 실패해도 true일 수 있습니다.
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`

	Counts Counts       `json:"counts"`
	Items  []ItemResult `json:"items"`
}

// New 새로운 실행 결과를 생성합니다.
func New(trigger Trigger) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now(),
		Items:     make([]ItemResult, 0),
	}
}

// Add 항목별 결과를 추가하고 집계를 갱신합니다.
func (r *Report) Add(items ...ItemResult) {
	for _, item := range items {
		r.Items = append(r.Items, item)

		switch item.Status {
		case StatusCreated:
			r.Counts.Created++
		case StatusUpdated:
			r.Counts.Updated++
		case StatusFailed:
			r.Counts.Failed++
		case StatusSkipped:
			r.Counts.Skipped++
		}
	}
}

// Finish 실행 종료 시각과 결과를 기록합니다.
func (r *Report) Finish(err error) {
	r.FinishedAt = time.Now()
	r.Succeeded = err == nil
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration 실행 소요 시간을 반환합니다. 아직 끝나지 않았으면 현재까지의 시간입니다.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedItems 실패한 항목만 반환합니다.
func (r *Report) FailedItems() []ItemResult {
	var failed []ItemResult
	for _, item := range r.Items {
		if item.Status == StatusFailed {
			failed = append(failed, item)
		}
	}
	return failed
}

// Summary 알림 메시지와 콘솔 출력에 사용하는 요약 문자열을 반환합니다.
func (r *Report) Summary() string {
	var sb strings.Builder

	result, resultMark := "성공", mark.Done
	if !r.Succeeded {
		result, resultMark = "실패", mark.Alert
	}

	fmt.Fprintf(&sb, "카탈로그 동기화 %s (%s)%s\n", result, r.Trigger, resultMark.WithSpace())
	fmt.Fprintf(&sb, "%s 생성 %d, %s 수정 %d, %s 실패 %d, %s 건너뜀 %d\n",
		mark.New, r.Counts.Created,
		mark.Modified, r.Counts.Updated,
		mark.Alert, r.Counts.Failed,
		mark.Skipped, r.Counts.Skipped)
	fmt.Fprintf(&sb, "소요 시간: %s", r.Duration().Round(time.Millisecond))

	if r.Error != "" {
		fmt.Fprintf(&sb, "\n\n에러: %s", r.Error)
	}

	const maxListed = 10
	failed := r.FailedItems()
	for i, item := range failed {
		if i == maxListed {
			fmt.Fprintf(&sb, "\n... 외 %d건", len(failed)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "\n- [%s] %s%s: %s", item.Kind, item.SKU, item.Name, item.Reason)
	}

	return sb.String()
}
