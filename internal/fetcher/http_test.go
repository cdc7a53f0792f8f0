package fetcher_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_TransportErrorRedactsURL(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	baseURL := ts.URL
	ts.Close()

	f := fetcher.NewHTTPFetcher()
	defer f.Close()

	req, err := http.NewRequest(http.MethodGet, baseURL+"/wp-json/wc/v3/products?consumer_key=ck_secret_1&consumer_secret=cs_secret_2&page=1", nil)
	require.NoError(t, err)

	resp, err := f.Do(req)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)

	var urlErr *url.Error
	require.True(t, errors.As(err, &urlErr), "전송 실패는 *url.Error로 반환되어야 합니다")

	assert.NotContains(t, err.Error(), "ck_secret_1")
	assert.NotContains(t, err.Error(), "cs_secret_2")
	assert.Contains(t, urlErr.URL, "page=1", "민감하지 않은 쿼리 파라미터는 유지되어야 합니다")
	assert.Equal(t, "ck_secret_1", req.URL.Query().Get("consumer_key"), "원본 요청의 URL은 변경되지 않아야 합니다")
}
