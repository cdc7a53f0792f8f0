package scheduler

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRunner struct {
	calls    atomic.Int32
	triggers chan report.Trigger
	err      error
}

func newFakeRunner(err error) *fakeRunner {
	return &fakeRunner{triggers: make(chan report.Trigger, 16), err: err}
}

func (f *fakeRunner) Run(ctx context.Context, trigger report.Trigger, _ io.Writer) (*report.Report, error) {
	f.calls.Add(1)
	select {
	case f.triggers <- trigger:
	default:
	}

	rep := report.New(trigger)
	rep.Finish(f.err)
	return rep, f.err
}

func TestNewService(t *testing.T) {
	assert.PanicsWithValue(t, "Runner는 필수입니다", func() {
		NewService("* * * * * *", nil)
	})

	s := NewService("0 0 3 * * *", newFakeRunner(nil))
	assert.Equal(t, "0 0 3 * * *", s.timeSpec)
	assert.False(t, s.running)
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "성공"},
		{name: "실행 실패는 스케줄러를 멈추지 않음", err: apperrors.New(apperrors.Unavailable, "원격 점검 중")},
		{name: "실행 중 충돌은 건너뜀", err: apperrors.New(apperrors.Conflict, "이미 실행 중")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newFakeRunner(tt.err)
			s := NewService("* * * * * *", runner)

			ctx, cancel := context.WithCancel(context.Background())
			var wg sync.WaitGroup
			wg.Add(1)

			require.NoError(t, s.Start(ctx, &wg))

			select {
			case trigger := <-runner.triggers:
				assert.Equal(t, report.TriggerSchedule, trigger)
			case <-time.After(3 * time.Second):
				t.Fatal("스케줄된 동기화가 실행되지 않았습니다")
			}

			cancel()
			wg.Wait()

			assert.False(t, s.running)
			assert.Nil(t, s.cron)
		})
	}
}

func TestScheduler_Start_InvalidSpec(t *testing.T) {
	s := NewService("0 3 * * *", newFakeRunner(nil))

	var wg sync.WaitGroup
	wg.Add(1)

	err := s.Start(context.Background(), &wg)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	assert.Contains(t, err.Error(), "0 3 * * *")

	// Start가 실패해도 Done()이 호출되어야 합니다.
	wg.Wait()
	assert.False(t, s.running)
}

func TestScheduler_Start_Twice(t *testing.T) {
	s := NewService("0 0 3 * * *", newFakeRunner(nil))

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)

	require.NoError(t, s.Start(ctx, &wg))
	require.NoError(t, s.Start(ctx, &wg))

	cancel()
	wg.Wait()
}

func TestScheduler_Stop_Idempotent(t *testing.T) {
	s := NewService("0 0 3 * * *", newFakeRunner(nil))

	assert.NotPanics(t, func() {
		s.Stop()
		s.Stop()
	})
}
