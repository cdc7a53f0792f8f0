package woocommerce

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// BatchAttributeTerms 전역 속성(attributeID)에 용어를 일괄 등록/수정/삭제합니다.
// 속성이 존재하는지는 미리 확인하지 않으며, 없으면 원격에서 404로 실패합니다.
func (c *Client) BatchAttributeTerms(ctx context.Context, attributeID int64, body any) (BatchResult, error) {
	data, _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("products/attributes/%d/terms/batch", attributeID), nil, body)
	if err != nil {
		return BatchResult{}, err
	}

	return parseBatchResult(data), nil
}

// parseBatchResult 일괄 처리 응답을 집계합니다.
// 항목별 실패는 HTTP 200 응답 안에 {"id": 0, "error": {...}} 형태로 포함됩니다.
func parseBatchResult(data []byte) BatchResult {
	var r BatchResult

	count := func(key string) int {
		n := 0
		gjson.GetBytes(data, key).ForEach(func(_, item gjson.Result) bool {
			if item.Get("error").Exists() {
				r.Failed++
			} else {
				n++
			}
			return true
		})
		return n
	}

	r.Created = count("create")
	r.Updated = count("update")
	r.Deleted = count("delete")

	return r
}
