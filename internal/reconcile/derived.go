package reconcile

import (
	"context"
	"fmt"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// AssignDerivedField SKU 분류 결과에 따라 상품의 파생 필드(브랜드 등)를 지정합니다.
//
// Mapped이면 {<field>: [{"id": N}]}로 상품을 수정하고, Unmapped/NoCode이면 아무것도 쓰지 않고
// 건너뜀(skipped)으로 기록합니다. 에러는 원격 수정이 실패한 경우에만 반환됩니다.
func (r *Reconciler) AssignDerivedField(ctx context.Context, productID int64, p catalog.Product) (report.ItemResult, error) {
	cls := r.classifier.Classify(p.SKU)
	field := r.opts.DerivedField.Field

	switch cls.Kind {
	case Mapped:
		payload := map[string]any{
			field: []map[string]int64{{"id": cls.TargetID}},
		}
		if err := r.remote.UpdateProduct(ctx, productID, payload); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"sku":       p.SKU,
				"id":        productID,
				"field":     field,
				"operation": "update",
				"error":     err,
			}).Warn("파생 필드 지정 실패")

			return report.Failed(report.KindDerivedField, p.SKU, err), err
		}

		return report.ItemResult{Kind: report.KindDerivedField, SKU: p.SKU, RemoteID: productID, Status: report.StatusUpdated}, nil

	case Unmapped:
		reason := fmt.Sprintf("분류 코드 '%s'에 대응하는 %s 값이 없습니다", cls.Code, field)

		applog.WithComponentAndFields(component, applog.Fields{
			"sku":   p.SKU,
			"code":  cls.Code,
			"field": field,
		}).Warn("매핑되지 않은 분류 코드입니다. 파생 필드 지정을 건너뜁니다")

		return report.ItemResult{Kind: report.KindDerivedField, SKU: p.SKU, RemoteID: productID, Status: report.StatusSkipped, Reason: reason}, nil

	case NoCode:
		applog.WithComponentAndFields(component, applog.Fields{
			"id":    productID,
			"field": field,
		}).Warn("SKU가 비어있어 파생 필드 지정을 건너뜁니다")

		return report.ItemResult{Kind: report.KindDerivedField, RemoteID: productID, Status: report.StatusSkipped, Reason: "SKU가 비어있습니다"}, nil
	}

	return report.ItemResult{}, apperrors.Newf(apperrors.Internal, "처리되지 않은 분류 결과입니다: %s", cls.Kind)
}
