// Package scheduler triggers search cycles on a cron spec instead of a fixed
// sleep interval.
package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"flight_watch_bot/internal/domain/flight"
)

// CycleRunner is the slice of the orchestrator the scheduler needs.
type CycleRunner interface {
	RunCycle(ctx context.Context) (*flight.Stats, error)
}

// CycleScheduler fires RunCycle on a cron schedule. A cycle still running when
// the next trigger fires is never overlapped; the trigger is skipped instead.
type CycleScheduler struct {
	cronEngine *cron.Cron
	runner     CycleRunner
	logger     *logrus.Logger
	spec       string
	running    atomic.Bool
}

func New(runner CycleRunner, spec string, logger *logrus.Logger) *CycleScheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &CycleScheduler{
		cronEngine: cron.New(),
		runner:     runner,
		logger:     logger,
		spec:       spec,
	}
}

// Start registers the cycle job and launches the cron engine. The job runs
// under ctx so cancellation stops an in-flight cycle.
func (s *CycleScheduler) Start(ctx context.Context) error {
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		if !s.running.CompareAndSwap(false, true) {
			s.logger.Warn("previous search cycle still running, skipping trigger")
			return
		}
		defer s.running.Store(false)

		s.logger.WithField("spec", s.spec).Info("cron trigger fired, starting search cycle")
		if _, err := s.runner.RunCycle(ctx); err != nil {
			s.logger.WithError(err).Error("scheduled search cycle failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.spec).Info("cycle scheduler started")
	return nil
}

// Stop halts the cron engine and waits for a running job to finish.
func (s *CycleScheduler) Stop() {
	<-s.cronEngine.Stop().Done()
	s.logger.Info("cycle scheduler stopped")
}
