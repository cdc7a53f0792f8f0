package reconcile

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// categoryNames 모든 상품이 참조하는 카테고리 이름을 처음 나온 순서대로 중복 없이 반환합니다.
func categoryNames(products []catalog.Product) []string {
	seen := make(map[string]struct{})
	var names []string

	for _, p := range products {
		for _, name := range p.Categories {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}

// EnsureCategories 상품들이 참조하는 카테고리 중 원격에 없는 것을 생성합니다.
// 이미 존재하는 카테고리는 건드리지 않으므로 매 실행마다 호출해도 안전합니다.
func (r *Reconciler) EnsureCategories(ctx context.Context, products []catalog.Product) ([]report.ItemResult, error) {
	ix, err := r.ensureIndex(ctx)
	if err != nil {
		return nil, err
	}

	var results []report.ItemResult

	for _, name := range categoryNames(products) {
		if ix.CategoryExists(name) {
			continue
		}

		created, err := r.remote.CreateCategory(ctx, name)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"category":  name,
				"operation": "create",
				"error":     err,
			}).Error("카테고리 생성 실패")

			results = append(results, report.ItemResult{Kind: report.KindCategory, Name: name, Status: report.StatusFailed, Reason: err.Error()})
			return results, apperrors.Wrapf(err, apperrors.UnderlyingType(err), "카테고리('%s')를 생성할 수 없습니다", name)
		}

		// 원격에서 이름이 정규화되더라도 카탈로그의 이름으로 찾을 수 있도록 로컬 이름으로 등록합니다.
		ix.AddCategory(woocommerce.Category{ID: created.ID, Name: name})

		applog.WithComponentAndFields(component, applog.Fields{
			"category": name,
			"id":       created.ID,
		}).Info("카테고리 생성 완료")

		results = append(results, report.ItemResult{Kind: report.KindCategory, Name: name, RemoteID: created.ID, Status: report.StatusCreated})
	}

	return results, nil
}

// resolveCategories 카테고리 이름 목록을 원격 참조 목록으로 변환합니다. 순서는 유지됩니다.
//
// 찾지 못한 이름은 FailOnMissingCategory가 false이면 {"id": null}로, true이면 NotFound 에러로 처리합니다.
func (r *Reconciler) resolveCategories(ix *Index, p catalog.Product) ([]categoryRef, error) {
	if len(p.Categories) == 0 {
		return nil, nil
	}

	refs := make([]categoryRef, 0, len(p.Categories))
	for _, name := range p.Categories {
		id, ok := ix.ResolveCategoryID(name)
		if !ok {
			if r.opts.FailOnMissingCategory {
				return nil, apperrors.Newf(apperrors.NotFound, "원격에 카테고리('%s')가 없습니다 (sku=%s)", name, p.SKU)
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"sku":      p.SKU,
				"category": name,
			}).Warn("원격에 없는 카테고리입니다. id를 null로 전송합니다")

			refs = append(refs, categoryRef{ID: nil})
			continue
		}

		refs = append(refs, categoryRef{ID: &id})
	}

	return refs, nil
}
