package fetcher_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/darkkaiser/catalog-sync/internal/fetcher/mocks"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMaxBytesFetcher(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://shop.example.com/", nil)

	t.Run("NoLimit이면 delegate를 그대로 반환", func(t *testing.T) {
		m := mocks.NewMockFetcher()
		assert.Same(t, m, fetcher.NewMaxBytesFetcher(m, fetcher.NoLimit))
	})

	t.Run("제한 이내의 본문", func(t *testing.T) {
		m := mocks.NewMockFetcher()
		m.On("Do", mock.Anything).Return(mocks.NewMockResponse("12345", http.StatusOK), nil)

		resp, err := fetcher.NewMaxBytesFetcher(m, 10).Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "12345", string(body))
	})

	t.Run("Content-Length 헤더로 조기 차단", func(t *testing.T) {
		resp := mocks.NewMockResponse("x", http.StatusOK)
		resp.ContentLength = 100
		body := resp.Body.(*mocks.MockReadCloser)

		m := mocks.NewMockFetcher()
		m.On("Do", mock.Anything).Return(resp, nil)

		got, err := fetcher.NewMaxBytesFetcher(m, 10).Do(req)

		assert.Nil(t, got)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
		assert.Equal(t, int32(1), body.CloseCount())
	})

	t.Run("읽는 도중 제한 초과", func(t *testing.T) {
		resp := mocks.NewMockResponse(strings.Repeat("a", 50), http.StatusOK)
		resp.ContentLength = -1

		m := mocks.NewMockFetcher()
		m.On("Do", mock.Anything).Return(resp, nil)

		got, err := fetcher.NewMaxBytesFetcher(m, 10).Do(req)
		require.NoError(t, err)
		defer got.Body.Close()

		_, err = io.ReadAll(got.Body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "크기 제한(10 bytes)")
	})
}
