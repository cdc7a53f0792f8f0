package woocommerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBatchResult(t *testing.T) {
	tests := []struct {
		name string
		data string
		want BatchResult
	}{
		{
			name: "생성만 존재",
			data: `{"create":[{"id":1},{"id":2}]}`,
			want: BatchResult{Created: 2},
		},
		{
			name: "항목별 실패 포함",
			data: `{"create":[{"id":1},{"id":0,"error":{"code":"term_exists","message":"이미 존재"}}],"update":[{"id":3}],"delete":[{"id":4}]}`,
			want: BatchResult{Created: 1, Updated: 1, Deleted: 1, Failed: 1},
		},
		{
			name: "빈 응답",
			data: `{}`,
			want: BatchResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBatchResult([]byte(tt.data)))
		})
	}
}
