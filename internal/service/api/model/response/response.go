// Package response 상태 API의 응답 본문 타입을 정의합니다.
package response

import "github.com/darkkaiser/catalog-sync/internal/pkg/version"

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 404, 409, 500)
	ResultCode int `json:"result_code"`

	Message string `json:"message"`
}

// RunAcceptedResponse 동기화 실행 요청이 접수되었을 때의 응답입니다.
type RunAcceptedResponse struct {
	RunID   string `json:"run_id"`
	Message string `json:"message"`
}

// HealthResponse 헬스 체크 응답
type HealthResponse struct {
	Status  string       `json:"status"`
	Running bool         `json:"running"`
	Uptime  int64        `json:"uptime"`
	Build   version.Info `json:"build"`
}
