package reconcile

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
)

// Remote 동기화에 필요한 원격 API입니다. *woocommerce.Client가 구현합니다.
type Remote interface {
	ListProducts(ctx context.Context) ([]woocommerce.Product, error)
	CreateProduct(ctx context.Context, payload any) (int64, error)
	UpdateProduct(ctx context.Context, id int64, payload any) error

	ListVariations(ctx context.Context, productID int64) ([]woocommerce.Variation, error)
	CreateVariation(ctx context.Context, productID int64, payload any) (int64, error)
	UpdateVariation(ctx context.Context, productID, variationID int64, payload any) error

	ListCategories(ctx context.Context) ([]woocommerce.Category, error)
	CreateCategory(ctx context.Context, name string) (woocommerce.Category, error)

	BatchAttributeTerms(ctx context.Context, attributeID int64, body any) (woocommerce.BatchResult, error)
}

var _ Remote = (*woocommerce.Client)(nil)
