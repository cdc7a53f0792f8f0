package reconcile

import (
	"context"
	"net/http"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce/wctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAssignDerivedField(t *testing.T) {
	opts := Options{
		DerivedField: DerivedFieldOptions{
			Enabled: true,
			Mapping: map[string]int64{"A": 501},
		},
	}

	tests := []struct {
		name       string
		sku        string
		wantStatus report.Status
		wantPuts   int
	}{
		{name: "매핑된 코드", sku: "A100", wantStatus: report.StatusUpdated, wantPuts: 1},
		{name: "매핑되지 않은 코드", sku: "Q100", wantStatus: report.StatusSkipped, wantPuts: 0},
		{name: "빈 SKU", sku: "", wantStatus: report.StatusSkipped, wantPuts: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := wctest.NewServer(t)
			productID := srv.SeedProduct(tt.sku, "상품")

			r := newTestReconciler(t, srv, opts)
			item, err := r.AssignDerivedField(context.Background(), productID, catalog.Product{SKU: tt.sku})

			require.NoError(t, err)
			assert.Equal(t, report.KindDerivedField, item.Kind)
			assert.Equal(t, tt.wantStatus, item.Status)
			assert.Equal(t, tt.wantPuts, srv.Count(http.MethodPut, "products/:id"))
		})
	}

	t.Run("기본 필드 이름은 brands", func(t *testing.T) {
		srv := wctest.NewServer(t)
		productID := srv.SeedProduct("A1", "상품")

		_, err := newTestReconciler(t, srv, opts).AssignDerivedField(context.Background(), productID, catalog.Product{SKU: "A1"})
		require.NoError(t, err)

		assert.JSONEq(t, `{"brands": [{"id": 501}]}`, string(srv.Products()[0].Payload))
	})

	t.Run("필드 이름 지정", func(t *testing.T) {
		srv := wctest.NewServer(t)
		productID := srv.SeedProduct("A1", "상품")

		custom := opts
		custom.DerivedField.Field = "tags"
		_, err := newTestReconciler(t, srv, custom).AssignDerivedField(context.Background(), productID, catalog.Product{SKU: "A1"})
		require.NoError(t, err)

		assert.Equal(t, int64(501), gjson.GetBytes(srv.Products()[0].Payload, "tags.0.id").Int())
	})

	t.Run("원격 수정 실패", func(t *testing.T) {
		srv := wctest.NewServer(t)
		productID := srv.SeedProduct("A1", "상품")
		srv.FailSKU("A1")

		item, err := newTestReconciler(t, srv, opts).AssignDerivedField(context.Background(), productID, catalog.Product{SKU: "A1"})

		require.Error(t, err)
		assert.Equal(t, report.StatusFailed, item.Status)
	})
}

// derivedFieldFailingRemote 파생 필드만 담긴 상품 수정 요청을 실패시킵니다.
type derivedFieldFailingRemote struct {
	Remote
}

func (r derivedFieldFailingRemote) UpdateProduct(ctx context.Context, id int64, payload any) error {
	if _, ok := payload.(map[string]any); ok {
		return apperrors.New(apperrors.Unavailable, "점검 중")
	}
	return r.Remote.UpdateProduct(ctx, id, payload)
}

func TestRun_DerivedFieldFailureDoesNotAbort(t *testing.T) {
	srv := wctest.NewServer(t)

	r := New(derivedFieldFailingRemote{Remote: newTestRemote(t, srv)}, Options{
		ImageBaseURL: testImageBaseURL,
		DerivedField: DerivedFieldOptions{Enabled: true, Mapping: map[string]int64{"A": 501}},
	})

	rep := report.New(report.TriggerCLI)
	err := r.Run(context.Background(), []catalog.Product{{SKU: "A1"}, {SKU: "A2"}}, rep)
	require.NoError(t, err)

	assert.Len(t, srv.Products(), 2)
	assert.Equal(t, report.Counts{Created: 2, Failed: 2}, rep.Counts)
	for _, item := range rep.FailedItems() {
		assert.Equal(t, report.KindDerivedField, item.Kind)
	}
}
