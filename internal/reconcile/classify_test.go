package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := NewClassifier(map[string]int64{"A": 101, "b": 102, "한": 103})

	tests := []struct {
		name string
		sku  string
		want Classification
	}{
		{name: "매핑됨", sku: "A123", want: Classification{Kind: Mapped, Code: "A", TargetID: 101}},
		{name: "한 글자 SKU", sku: "A", want: Classification{Kind: Mapped, Code: "A", TargetID: 101}},
		{name: "대소문자 구분", sku: "a123", want: Classification{Kind: Unmapped, Code: "a"}},
		{name: "소문자 코드 매핑", sku: "b-77", want: Classification{Kind: Mapped, Code: "b", TargetID: 102}},
		{name: "멀티바이트 첫 글자", sku: "한글-1", want: Classification{Kind: Mapped, Code: "한", TargetID: 103}},
		{name: "매핑되지 않음", sku: "Z999", want: Classification{Kind: Unmapped, Code: "Z"}},
		{name: "빈 SKU", sku: "", want: Classification{Kind: NoCode}},
		{name: "잘못된 UTF-8", sku: "\xff12", want: Classification{Kind: NoCode}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.sku))
		})
	}
}

func TestNewClassifier_CopiesMapping(t *testing.T) {
	t.Parallel()

	mapping := map[string]int64{"A": 1}
	c := NewClassifier(mapping)
	mapping["A"] = 2

	assert.Equal(t, int64(1), c.Classify("A1").TargetID)
}

func TestClassificationKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mapped", Mapped.String())
	assert.Equal(t, "unmapped", Unmapped.String())
	assert.Equal(t, "no_code", NoCode.String())
	assert.Equal(t, "unknown", ClassificationKind(0).String())
}
