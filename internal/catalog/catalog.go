// Package catalog 로컬 JSON 카탈로그 파일과 속성 용어(Term) 파일을 읽습니다.
package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Product 카탈로그의 상품 레코드입니다. 실행 중에는 변경되지 않습니다.
type Product struct {
	Name             string `json:"name"`
	SKU              string `json:"sku" validate:"required"`
	Description      string `json:"description"`
	Type             string `json:"type"`
	SoldIndividually bool   `json:"sold_individually"`

	// Attributes 원격 페이로드에 그대로 전달됩니다.
	Attributes json.RawMessage `json:"attributes,omitempty"`

	// Categories 카테고리 이름 목록 (원격 id로 변환되어 전송됨)
	Categories []string `json:"categories"`

	// Images 이미지 파일명 목록 (이미지 기본 URL이 앞에 붙어 전송됨)
	Images []string `json:"imgs"`

	Variations []Variation `json:"variations" validate:"dive"`
}

// Variation 카탈로그의 변형 상품 레코드입니다.
// sku 이외의 필드(가격, 재고, 속성 선택 등)는 해석하지 않고 원본 JSON 그대로 원격에 전달합니다.
// sku가 없으면 원격의 기존 변형 상품과 대조할 수 없으므로 카탈로그를 읽을 때 거부됩니다.
type Variation struct {
	SKU string `json:"sku" validate:"required"`
	raw json.RawMessage
}

// NewVariation 원본 JSON으로 Variation을 생성합니다.
func NewVariation(raw json.RawMessage) Variation {
	return Variation{
		SKU: gjson.GetBytes(raw, "sku").String(),
		raw: raw,
	}
}

// Payload 원격에 전송할 원본 JSON을 반환합니다.
func (v Variation) Payload() json.RawMessage {
	if len(v.raw) == 0 {
		data, _ := json.Marshal(map[string]string{"sku": v.SKU})
		return data
	}
	return v.raw
}

func (v *Variation) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Variation{}
		return nil
	}
	*v = NewVariation(bytes.Clone(data))
	return nil
}

func (v Variation) MarshalJSON() ([]byte, error) {
	return v.Payload(), nil
}

// TermBatch 속성 용어 일괄 처리 요청 본문입니다.
type TermBatch struct {
	Create []json.RawMessage `json:"create,omitempty"`
	Update []json.RawMessage `json:"update,omitempty"`
	Delete []int64           `json:"delete,omitempty"`
}

// Len 일괄 처리할 항목의 총 개수를 반환합니다.
func (b TermBatch) Len() int {
	return len(b.Create) + len(b.Update) + len(b.Delete)
}
