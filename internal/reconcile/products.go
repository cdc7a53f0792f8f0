package reconcile

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// UpsertProduct 상품을 생성하거나 수정하고 원격 id를 반환합니다.
//
//  1. SKU(대소문자 무시)로 원격 상품을 찾습니다.
//  2. 카테고리 이름을 원격 id로 변환합니다.
//  3. 이미지 파일명을 URL로 변환합니다.
//  4. 일치하는 상품이 없으면 생성(POST), 있으면 수정(PUT)합니다.
func (r *Reconciler) UpsertProduct(ctx context.Context, p catalog.Product) (int64, error) {
	id, _, err := r.upsertProduct(ctx, p)
	return id, err
}

func (r *Reconciler) upsertProduct(ctx context.Context, p catalog.Product) (int64, report.Status, error) {
	ix, err := r.ensureIndex(ctx)
	if err != nil {
		return 0, report.StatusFailed, err
	}

	existing, found := ix.FindProductBySKU(p.SKU)

	categories, err := r.resolveCategories(ix, p)
	if err != nil {
		return 0, report.StatusFailed, err
	}

	payload := newProductPayload(p, categories, formatImages(r.opts.ImageBaseURL, p.Images))

	if !found {
		id, err := r.remote.CreateProduct(ctx, payload)
		if err != nil {
			return 0, report.StatusFailed, r.productError(err, p, "create", 0)
		}

		ix.AddProduct(woocommerce.Product{ID: id, SKU: p.SKU, Name: p.Name})

		applog.WithComponentAndFields(component, applog.Fields{
			"sku": p.SKU,
			"id":  id,
		}).Info("상품 생성 완료")

		return id, report.StatusCreated, nil
	}

	if err := r.remote.UpdateProduct(ctx, existing.ID, payload); err != nil {
		return 0, report.StatusFailed, r.productError(err, p, "update", existing.ID)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"sku": p.SKU,
		"id":  existing.ID,
	}).Info("상품 수정 완료")

	return existing.ID, report.StatusUpdated, nil
}

func (r *Reconciler) productError(err error, p catalog.Product, operation string, id int64) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"sku":       p.SKU,
		"id":        id,
		"operation": operation,
		"error":     err,
	}).Error("상품 동기화 실패")

	return apperrors.Wrapf(err, apperrors.UnderlyingType(err), "상품(sku=%s) %s 요청이 실패했습니다", p.SKU, operation)
}
