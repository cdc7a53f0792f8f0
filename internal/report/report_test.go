package report

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New(TriggerAPI)

	_, err := uuid.Parse(r.RunID)
	assert.NoError(t, err, "RunID는 UUID 형식이어야 합니다")
	assert.Equal(t, TriggerAPI, r.Trigger)
	assert.False(t, r.StartedAt.IsZero())
	assert.NotNil(t, r.Items)
	assert.NotEqual(t, r.RunID, New(TriggerAPI).RunID)
}

func TestReport_Add(t *testing.T) {
	r := New(TriggerCLI)

	r.Add(
		ItemResult{Kind: KindProduct, SKU: "A", Status: StatusCreated},
		ItemResult{Kind: KindVariation, SKU: "A-1", Status: StatusCreated},
		ItemResult{Kind: KindVariation, SKU: "A-2", Status: StatusUpdated},
		Failed(KindVariation, "A-3", errors.New("boom")),
		ItemResult{Kind: KindDerivedField, SKU: "A", Status: StatusSkipped, Reason: "매핑 없음"},
	)

	assert.Equal(t, Counts{Created: 2, Updated: 1, Failed: 1, Skipped: 1}, r.Counts)
	assert.Equal(t, 5, r.Counts.Total())

	failed := r.FailedItems()
	require.Len(t, failed, 1)
	assert.Equal(t, "A-3", failed[0].SKU)
	assert.Equal(t, "boom", failed[0].Reason)
}

func TestReport_Finish(t *testing.T) {
	t.Run("성공", func(t *testing.T) {
		r := New(TriggerCLI)
		r.Finish(nil)

		assert.True(t, r.Succeeded)
		assert.Empty(t, r.Error)
		assert.False(t, r.FinishedAt.IsZero())
		assert.GreaterOrEqual(t, r.Duration(), time.Duration(0))
	})

	t.Run("실패", func(t *testing.T) {
		r := New(TriggerSchedule)
		r.Finish(errors.New("상품 동기화 실패"))

		assert.False(t, r.Succeeded)
		assert.Equal(t, "상품 동기화 실패", r.Error)
	})
}

func TestReport_Summary(t *testing.T) {
	r := New(TriggerSchedule)
	for i := 0; i < 12; i++ {
		r.Add(Failed(KindVariation, fmt.Sprintf("V-%d", i), errors.New("400")))
	}
	r.Add(ItemResult{Kind: KindProduct, SKU: "P", Status: StatusUpdated})
	r.Finish(errors.New("중단됨"))

	summary := r.Summary()

	assert.Contains(t, summary, "카탈로그 동기화 실패 (schedule) 🚨")
	assert.Contains(t, summary, "🆕 생성 0, 🔁 수정 1, 🚨 실패 12, ⏭️ 건너뜀 0")
	assert.Contains(t, summary, "에러: 중단됨")
	assert.Contains(t, summary, "- [variation] V-0: 400")
	assert.Contains(t, summary, "... 외 2건")
	assert.NotContains(t, summary, "V-11")
}
