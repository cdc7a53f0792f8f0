package reconcile

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// Index 실행 시작 시 한 번 조회한 원격 상품/카테고리의 조회 테이블입니다.
//
//   - 상품: 케이스 폴딩한 SKU로 조회 (대소문자 무시)
//   - 카테고리: 이름으로 조회 (대소문자 구분)
//
// 같은 키를 가진 원격 리소스가 여러 개이면 먼저 조회된 것을 사용하고 경고를 남깁니다.
// Index는 하나의 실행 안에서만 사용되며 동시 접근을 고려하지 않습니다.
type Index struct {
	products   map[string]woocommerce.Product
	categories map[string]int64
}

// NewIndex 조회된 원격 리소스로 Index를 생성합니다.
func NewIndex(products []woocommerce.Product, categories []woocommerce.Category) *Index {
	ix := &Index{
		products:   make(map[string]woocommerce.Product, len(products)),
		categories: make(map[string]int64, len(categories)),
	}

	for _, p := range products {
		if p.SKU == "" {
			continue
		}
		key := normalizeSKU(p.SKU)
		if first, exists := ix.products[key]; exists {
			applog.WithComponentAndFields(component, applog.Fields{
				"sku":        p.SKU,
				"used_id":    first.ID,
				"ignored_id": p.ID,
			}).Warn("원격에 같은 SKU를 가진 상품이 여러 개 있습니다. 먼저 조회된 상품을 사용합니다")
			continue
		}
		ix.products[key] = p
	}

	for _, c := range categories {
		if firstID, exists := ix.categories[c.Name]; exists {
			applog.WithComponentAndFields(component, applog.Fields{
				"category":   c.Name,
				"used_id":    firstID,
				"ignored_id": c.ID,
			}).Warn("원격에 같은 이름의 카테고리가 여러 개 있습니다. 먼저 조회된 카테고리를 사용합니다")
			continue
		}
		ix.categories[c.Name] = c.ID
	}

	return ix
}

// BuildIndex 원격 카테고리와 상품 전체를 조회하여 Index를 생성합니다.
func BuildIndex(ctx context.Context, remote Remote) (*Index, error) {
	categories, err := remote.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	products, err := remote.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"products":   len(products),
		"categories": len(categories),
	}).Info("원격 인덱스 생성 완료")

	return NewIndex(products, categories), nil
}

// FindProductBySKU 대소문자를 무시하고 SKU가 일치하는 원격 상품을 찾습니다.
func (ix *Index) FindProductBySKU(sku string) (woocommerce.Product, bool) {
	if sku == "" {
		return woocommerce.Product{}, false
	}
	p, ok := ix.products[normalizeSKU(sku)]
	return p, ok
}

// AddProduct 새로 생성한 상품을 등록합니다. 이미 같은 SKU가 있으면 무시합니다.
func (ix *Index) AddProduct(p woocommerce.Product) {
	if p.SKU == "" {
		return
	}
	key := normalizeSKU(p.SKU)
	if _, exists := ix.products[key]; !exists {
		ix.products[key] = p
	}
}

// ResolveCategoryID 이름이 정확히 일치(대소문자 구분)하는 카테고리의 id를 반환합니다.
func (ix *Index) ResolveCategoryID(name string) (int64, bool) {
	id, ok := ix.categories[name]
	return id, ok
}

// CategoryExists 이름이 정확히 일치(대소문자 구분)하는 카테고리가 있는지 확인합니다.
func (ix *Index) CategoryExists(name string) bool {
	_, ok := ix.categories[name]
	return ok
}

// AddCategory 새로 생성한 카테고리를 등록합니다.
func (ix *Index) AddCategory(c woocommerce.Category) {
	if _, exists := ix.categories[c.Name]; !exists {
		ix.categories[c.Name] = c.ID
	}
}
