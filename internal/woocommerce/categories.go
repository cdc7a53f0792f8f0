package woocommerce

import (
	"context"
	"html"
	"net/http"

	"github.com/tidwall/gjson"
)

// ListCategories 원격 상품 카테고리 전체를 조회합니다.
//
// 원격은 카테고리 이름을 HTML 엔티티로 저장하므로("Shoes &amp; Boots") 카탈로그의 이름과
// 비교할 수 있도록 엔티티를 되돌린 이름을 반환합니다.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category

	err := c.listAll(ctx, "products/categories", func(item gjson.Result) {
		categories = append(categories, Category{
			ID:   item.Get("id").Int(),
			Name: html.UnescapeString(item.Get("name").String()),
		})
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// CreateCategory 이름만 지정하여 카테고리를 생성합니다.
func (c *Client) CreateCategory(ctx context.Context, name string) (Category, error) {
	data, _, err := c.do(ctx, http.MethodPost, "products/categories", nil, map[string]string{"name": name})
	if err != nil {
		return Category{}, err
	}

	id, err := createdID(data, "카테고리")
	if err != nil {
		return Category{}, err
	}

	// 원격에서 이름이 정규화될 수 있으므로 응답의 이름을 우선하되, HTML 엔티티는 되돌립니다.
	if remoteName := gjson.GetBytes(data, "name").String(); remoteName != "" {
		name = html.UnescapeString(remoteName)
	}

	return Category{ID: id, Name: name}, nil
}
