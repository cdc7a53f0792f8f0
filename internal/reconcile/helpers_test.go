package reconcile

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce"
	"github.com/darkkaiser/catalog-sync/internal/woocommerce/wctest"
	"github.com/stretchr/testify/require"
)

const testImageBaseURL = "https://cdn.example.com/img/"

func newTestRemote(t *testing.T, srv *wctest.Server) *woocommerce.Client {
	t.Helper()

	f := fetcher.NewFromConfig(fetcher.Config{
		Timeout:            5 * time.Second,
		AllowedStatusCodes: []int{http.StatusOK, http.StatusCreated},
		AllowedMimeTypes:   []string{"application/json"},
		DisableLogging:     true,
	})

	c, err := woocommerce.New(woocommerce.Config{
		BaseURL:        srv.URL,
		ConsumerKey:    wctest.ConsumerKey,
		ConsumerSecret: wctest.ConsumerSecret,
	}, f)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func newTestReconciler(t *testing.T, srv *wctest.Server, opts Options) *Reconciler {
	t.Helper()

	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = testImageBaseURL
	}
	return New(newTestRemote(t, srv), opts)
}

func variation(t *testing.T, raw string) catalog.Variation {
	t.Helper()

	var v catalog.Variation
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

// sampleProduct 빈 원격 상점에 동기화하면 상품 1개, 변형 상품 1개가 생성되는 카탈로그 상품입니다.
func sampleProduct(t *testing.T) catalog.Product {
	t.Helper()

	return catalog.Product{
		Name:       "Test",
		SKU:        "ABC123",
		Type:       "variable",
		Categories: []string{"NewCat"},
		Variations: []catalog.Variation{variation(t, `{"sku": "ABC123-S", "regular_price": "10.00"}`)},
	}
}

func writeTermsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "terms.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
