package reconcile

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// findVariationBySKU 대소문자를 무시하고 SKU가 일치하는 첫 번째 변형 상품을 찾습니다.
func findVariationBySKU(variations []woocommerce.Variation, sku string) (woocommerce.Variation, bool) {
	for _, v := range variations {
		if sameSKU(v.SKU, sku) {
			return v, true
		}
	}
	return woocommerce.Variation{}, false
}

// UpsertVariations 상품의 변형 상품들을 하나씩 생성하거나 수정합니다.
//
// 변형 상품 하나의 실패는 나머지 처리를 막지 않습니다. 실패는 결과 목록에 기록되고 경고 로그로 남습니다.
// 원격 변형 상품 목록은 상품별로 한 번만 조회하여 캐시하며, 생성 성공 시 캐시에 추가하고
// 쓰기가 실패하면 원격 상태를 알 수 없으므로 캐시를 비웁니다.
func (r *Reconciler) UpsertVariations(ctx context.Context, productID int64, variations []catalog.Variation) []report.ItemResult {
	results := make([]report.ItemResult, 0, len(variations))

	for _, v := range variations {
		results = append(results, r.upsertVariation(ctx, productID, v))
	}

	return results
}

func (r *Reconciler) upsertVariation(ctx context.Context, productID int64, v catalog.Variation) report.ItemResult {
	// sku가 없으면 원격과 대조할 수 없어 실행할 때마다 새로 생성되므로 쓰기 전에 거부합니다.
	if v.SKU == "" {
		return r.variationFailed(productID, v, "validate", apperrors.New(apperrors.InvalidInput, "sku가 없는 변형 상품은 동기화할 수 없습니다"))
	}

	remote, err := r.cachedVariations(ctx, productID)
	if err != nil {
		return r.variationFailed(productID, v, "list", err)
	}

	if existing, found := findVariationBySKU(remote, v.SKU); found {
		if err := r.remote.UpdateVariation(ctx, productID, existing.ID, v.Payload()); err != nil {
			r.invalidateVariations(productID)
			return r.variationFailed(productID, v, "update", err)
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"sku":        v.SKU,
			"product_id": productID,
			"id":         existing.ID,
		}).Debug("변형 상품 수정 완료")

		return report.ItemResult{Kind: report.KindVariation, SKU: v.SKU, RemoteID: existing.ID, Status: report.StatusUpdated}
	}

	id, err := r.remote.CreateVariation(ctx, productID, v.Payload())
	if err != nil {
		r.invalidateVariations(productID)
		return r.variationFailed(productID, v, "create", err)
	}
	r.rememberVariation(woocommerce.Variation{ID: id, SKU: v.SKU, ParentID: productID})

	applog.WithComponentAndFields(component, applog.Fields{
		"sku":        v.SKU,
		"product_id": productID,
		"id":         id,
	}).Debug("변형 상품 생성 완료")

	return report.ItemResult{Kind: report.KindVariation, SKU: v.SKU, RemoteID: id, Status: report.StatusCreated}
}

func (r *Reconciler) variationFailed(productID int64, v catalog.Variation, operation string, err error) report.ItemResult {
	applog.WithComponentAndFields(component, applog.Fields{
		"sku":        v.SKU,
		"product_id": productID,
		"operation":  operation,
		"error":      err,
	}).Warn("변형 상품 동기화 실패. 다음 변형 상품을 계속 처리합니다")

	return report.Failed(report.KindVariation, v.SKU, err)
}
