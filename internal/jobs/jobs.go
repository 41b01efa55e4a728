// Package jobs runs the periodic background tasks of the API process.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler is implemented by service.AssetReconciler.
type Reconciler interface {
	Run(ctx context.Context) (int, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronLogger routes the scheduler's own messages to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

type Scheduler struct {
	sched  *cron.Cron
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	clog := cronLogger{sugar: logger.Sugar()}
	return &Scheduler{
		sched: cron.New(
			cron.WithParser(cronParser),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
		logger: logger,
	}
}

// AddReconcile schedules the asset reconciler. Each run gets at most timeout.
func (s *Scheduler) AddReconcile(spec string, reconciler Reconciler, timeout time.Duration) error {
	if _, err := s.sched.AddFunc(spec, s.reconcileJob(reconciler, timeout)); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	s.logger.Info("asset reconcile job scheduled", zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) reconcileJob(reconciler Reconciler, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		reclaimed, err := reconciler.Run(ctx)
		if err != nil {
			s.logger.Error("asset reconcile failed", zap.Error(err))
			return
		}
		if reclaimed > 0 {
			s.logger.Info("asset reconcile finished",
				zap.Int("reclaimed", reclaimed),
				zap.Duration("duration", time.Since(start)),
			)
		}
	}
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.sched.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stopped before running jobs finished")
	}
}
