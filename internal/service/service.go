// Package service 데몬 모드에서 함께 실행되는 장기 실행 서비스(스케줄러, 상태 API)의 공통 계약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 시작과 종료가 관리되는 서비스입니다.
//
// Start는 즉시 반환되어야 하며, 서비스는 serviceStopCtx가 취소되면 정리 작업을 마친 뒤
// serviceStopWG.Done()을 정확히 한 번 호출합니다. Start가 에러를 반환하는 경우에도 Done()은 호출됩니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
