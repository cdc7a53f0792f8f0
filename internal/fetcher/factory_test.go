package fetcher_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")

		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":7}`)
		case "/html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html>maintenance</html>")
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"code":"rest_no_route"}`)
		}
	}))
	defer srv.Close()

	f := fetcher.NewFromConfig(fetcher.Config{
		Timeout:            5 * time.Second,
		UserAgent:          "catalog-sync-test",
		AllowedStatusCodes: []int{http.StatusOK, http.StatusCreated},
		AllowedMimeTypes:   []string{"application/json"},
		DisableLogging:     true,
	})
	defer f.Close()

	t.Run("성공 응답", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/ok", nil)
		resp, err := f.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, `{"id":7}`, string(body))
		assert.Equal(t, "catalog-sync-test", gotUserAgent)
	})

	t.Run("HTML 응답 거부", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/html", nil)
		resp, err := f.Do(req)
		assert.Nil(t, resp)
		assert.Error(t, err)
	})

	t.Run("404 응답", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/missing", nil)
		resp, err := f.Do(req)
		assert.Nil(t, resp)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})
}
