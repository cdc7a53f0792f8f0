package woocommerce

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ListProducts 원격 상품 전체를 조회합니다.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product

	err := c.listAll(ctx, "products", func(item gjson.Result) {
		products = append(products, Product{
			ID:   item.Get("id").Int(),
			SKU:  item.Get("sku").String(),
			Name: item.Get("name").String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

// CreateProduct 상품을 생성하고 부여된 id를 반환합니다.
func (c *Client) CreateProduct(ctx context.Context, payload any) (int64, error) {
	data, _, err := c.do(ctx, http.MethodPost, "products", nil, payload)
	if err != nil {
		return 0, err
	}
	return createdID(data, "상품")
}

// UpdateProduct 상품을 수정합니다. payload에 포함된 필드만 변경됩니다.
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload any) error {
	_, _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("products/%d", id), nil, payload)
	return err
}

// ListVariations 상품에 속한 변형 상품 전체를 조회합니다.
func (c *Client) ListVariations(ctx context.Context, productID int64) ([]Variation, error) {
	var variations []Variation

	err := c.listAll(ctx, fmt.Sprintf("products/%d/variations", productID), func(item gjson.Result) {
		parentID := item.Get("parent_id").Int()
		if parentID == 0 {
			parentID = productID
		}
		variations = append(variations, Variation{
			ID:       item.Get("id").Int(),
			SKU:      item.Get("sku").String(),
			ParentID: parentID,
		})
	})
	if err != nil {
		return nil, err
	}

	return variations, nil
}

// CreateVariation 변형 상품을 생성하고 부여된 id를 반환합니다.
func (c *Client) CreateVariation(ctx context.Context, productID int64, payload any) (int64, error) {
	data, _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("products/%d/variations", productID), nil, payload)
	if err != nil {
		return 0, err
	}
	return createdID(data, "변형 상품")
}

// UpdateVariation 변형 상품을 수정합니다.
func (c *Client) UpdateVariation(ctx context.Context, productID, variationID int64, payload any) error {
	_, _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("products/%d/variations/%d", productID, variationID), nil, payload)
	return err
}
