// Package mocks fetcher 패키지 테스트용 Mock 구현체를 제공합니다.
package mocks

import (
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/stretchr/testify/mock"
)

var _ fetcher.Fetcher = (*MockFetcher)(nil)
var _ io.ReadCloser = (*MockReadCloser)(nil)

// MockFetcher testify/mock 기반의 Fetcher Mock입니다.
type MockFetcher struct {
	mock.Mock
}

// NewMockFetcher 새로운 MockFetcher를 생성합니다.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

func (m *MockFetcher) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockFetcher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockReadCloser Close 호출 횟수를 기록하는 응답 본문입니다.
type MockReadCloser struct {
	io.Reader
	closeCount atomic.Int32
}

// NewMockReadCloser 주어진 문자열을 읽는 MockReadCloser를 생성합니다.
func NewMockReadCloser(body string) *MockReadCloser {
	return &MockReadCloser{Reader: strings.NewReader(body)}
}

func (m *MockReadCloser) Close() error {
	m.closeCount.Add(1)
	return nil
}

// CloseCount Close가 호출된 횟수를 반환합니다.
func (m *MockReadCloser) CloseCount() int32 {
	return m.closeCount.Load()
}

// NewMockResponse 주어진 본문과 상태 코드를 가진 응답을 생성합니다.
func NewMockResponse(body string, statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       NewMockReadCloser(body),
		Header:     make(http.Header),
	}
}
