package reconcile

import (
	"context"
	"fmt"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// LoadAttributeTerms 용어 파일을 읽어 전역 속성(attributeID)에 한 번의 일괄 요청으로 등록합니다.
// 속성 id는 운영자가 설정으로 지정하며, 속성이 실제로 존재하는지는 확인하지 않습니다.
func (r *Reconciler) LoadAttributeTerms(ctx context.Context, attributeID int64, path string) (report.ItemResult, error) {
	name := fmt.Sprintf("attribute:%d", attributeID)

	batch, err := catalog.LoadAttributeTerms(path)
	if err != nil {
		return report.ItemResult{Kind: report.KindAttributeTerms, Name: name, RemoteID: attributeID, Status: report.StatusFailed, Reason: err.Error()}, err
	}

	if batch.Len() == 0 {
		return report.ItemResult{Kind: report.KindAttributeTerms, Name: name, RemoteID: attributeID, Status: report.StatusSkipped, Reason: "등록할 용어가 없습니다"}, nil
	}

	result, err := r.remote.BatchAttributeTerms(ctx, attributeID, batch)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"attribute_id": attributeID,
			"file":         path,
			"operation":    "batch",
			"error":        err,
		}).Error("속성 용어 일괄 등록 실패")

		return report.ItemResult{Kind: report.KindAttributeTerms, Name: name, RemoteID: attributeID, Status: report.StatusFailed, Reason: err.Error()},
			apperrors.Wrapf(err, apperrors.UnderlyingType(err), "속성(id=%d) 용어 일괄 등록에 실패했습니다", attributeID)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"attribute_id": attributeID,
		"created":      result.Created,
		"updated":      result.Updated,
		"deleted":      result.Deleted,
		"failed":       result.Failed,
	}).Info("속성 용어 일괄 등록 완료")

	return report.ItemResult{
		Kind:     report.KindAttributeTerms,
		Name:     name,
		RemoteID: attributeID,
		Status:   report.StatusCreated,
		Reason:   fmt.Sprintf("생성 %d, 수정 %d, 삭제 %d, 실패 %d", result.Created, result.Updated, result.Deleted, result.Failed),
	}, nil
}
