package reconcile

import (
	"encoding/json"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
)

// productPayload 상품 생성/수정 요청 본문입니다.
type productPayload struct {
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Description      string          `json:"description"`
	Type             string          `json:"type,omitempty"`
	SoldIndividually bool            `json:"sold_individually"`
	Attributes       json.RawMessage `json:"attributes,omitempty"`
	Categories       []categoryRef   `json:"categories,omitempty"`
	Images           []imageRef      `json:"images,omitempty"`
}

// categoryRef 원격 카테고리 참조입니다. 찾지 못한 카테고리는 {"id": null}로 전송됩니다.
type categoryRef struct {
	ID *int64 `json:"id"`
}

type imageRef struct {
	Src      string `json:"src"`
	Position int    `json:"position"`
}

// formatImages 이미지 파일명 앞에 기본 URL을 붙입니다. position은 입력 순서와 관계없이 항상 0입니다.
func formatImages(baseURL string, filenames []string) []imageRef {
	if len(filenames) == 0 {
		return nil
	}

	images := make([]imageRef, 0, len(filenames))
	for _, name := range filenames {
		images = append(images, imageRef{Src: baseURL + name, Position: 0})
	}
	return images
}

func newProductPayload(p catalog.Product, categories []categoryRef, images []imageRef) productPayload {
	return productPayload{
		Name:             p.Name,
		SKU:              p.SKU,
		Description:      p.Description,
		Type:             p.Type,
		SoldIndividually: p.SoldIndividually,
		Attributes:       p.Attributes,
		Categories:       categories,
		Images:           images,
	}
}
