package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
)

// Run 카탈로그 전체를 동기화하고 결과를 rep에 기록합니다.
//
// 실행 순서:
//  1. 원격 인덱스 생성 (카테고리, 상품 전체 조회)
//  2. 속성 용어 일괄 등록 (설정된 경우)
//  3. 카테고리 생성 (CreateCategories가 true인 경우)
//  4. 상품마다 상품 동기화 -> 변형 상품 동기화 -> 파생 필드 지정
//
// 상품 동기화가 실패하면 즉시 중단하고 에러를 반환합니다. 변형 상품과 파생 필드의 실패는 기록 후 계속 진행합니다.
func (r *Reconciler) Run(ctx context.Context, products []catalog.Product, rep *report.Report) error {
	r.printf("Loading...\n")

	if _, err := r.ensureIndex(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.UnderlyingType(err), "원격 인덱스를 생성할 수 없습니다")
	}

	for _, src := range r.opts.AttributeTerms {
		item, err := r.LoadAttributeTerms(ctx, src.AttributeID, src.File)
		if src.Name != "" {
			item.Name = src.Name
		}
		rep.Add(item)
		if err != nil {
			return err
		}
		r.printf("속성 용어 %s: %s\n", item.Name, item.Status)
	}

	if r.opts.CreateCategories {
		items, err := r.EnsureCategories(ctx, products)
		rep.Add(items...)
		if err != nil {
			return err
		}
		r.printf("카테고리 %d개 생성\n", len(items))
	}

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			errType := apperrors.ExecutionFailed
			if errors.Is(err, context.DeadlineExceeded) {
				errType = apperrors.Timeout
			}
			return apperrors.Wrapf(err, errType, "동기화가 중단되었습니다 (%d/%d 처리됨)", i, len(products))
		}

		id, status, err := r.upsertProduct(ctx, p)
		if err != nil {
			rep.Add(report.Failed(report.KindProduct, p.SKU, err))
			r.printf("[%d/%d] %s 실패: %v\n", i+1, len(products), p.SKU, err)
			return err
		}
		rep.Add(report.ItemResult{Kind: report.KindProduct, SKU: p.SKU, RemoteID: id, Status: status})

		variationResults := r.UpsertVariations(ctx, id, p.Variations)
		rep.Add(variationResults...)

		if r.opts.DerivedField.Enabled {
			// 파생 필드 지정 실패는 상품 자체의 동기화 실패로 보지 않습니다.
			item, _ := r.AssignDerivedField(ctx, id, p)
			rep.Add(item)
		}

		r.printf("[%d/%d] %s %s (id=%d, 변형 상품 %d개%s)\n", i+1, len(products), p.SKU, status, id, len(variationResults), failedSuffix(variationResults))
	}

	r.printf("End\n")

	return nil
}

func (r *Reconciler) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.opts.Progress, format, args...)
}

func failedSuffix(items []report.ItemResult) string {
	n := 0
	for _, item := range items {
		if item.Status == report.StatusFailed {
			n++
		}
	}
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(", 실패 %d개", n)
}
