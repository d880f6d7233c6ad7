package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flight_watch_bot/internal/domain/flight"
)

type countingRunner struct {
	cycles  atomic.Int32
	release chan struct{}
}

func (r *countingRunner) RunCycle(ctx context.Context) (*flight.Stats, error) {
	r.cycles.Add(1)
	if r.release != nil {
		<-r.release
	}
	return &flight.Stats{}, nil
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New(&countingRunner{}, "not a cron spec", nil)
	err := s.Start(context.Background())
	assert.Error(t, err)
}

func TestSchedulerFiresCycles(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, "@every 100ms", nil)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.cycles.Load() >= 2
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSchedulerSkipsOverlappingTriggers(t *testing.T) {
	runner := &countingRunner{release: make(chan struct{})}
	s := New(runner, "@every 50ms", nil)
	require.NoError(t, s.Start(context.Background()))

	// The first trigger blocks inside RunCycle; later triggers must be
	// skipped rather than stacked.
	assert.Eventually(t, func() bool {
		return runner.cycles.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runner.cycles.Load())

	close(runner.release)
	s.Stop()
}
