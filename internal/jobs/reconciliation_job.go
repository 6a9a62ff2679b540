package jobs

import (
	"context"
	"log/slog"
	"time"

	"parceltrack/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultReconcileSchedule runs a tick every five minutes (seconds field first).
	DefaultReconcileSchedule = "0 */5 * * * *"
	DefaultReconcileTimeout  = 4 * time.Minute
)

type reconcileHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileProgressCommand) (commands.ReconcileResult, error)
}

// ReconciliationJob triggers progress reconciliation on a cron schedule.
// A tick that is still running when the next one is due is skipped, and every
// tick is bounded by timeout so a slow provider cannot stall the schedule.
type ReconciliationJob struct {
	handler  reconcileHandler
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewReconciliationJob creates the job. Empty schedule and non-positive timeout
// select the defaults.
func NewReconciliationJob(
	handler reconcileHandler,
	schedule string,
	timeout time.Duration,
	logger *slog.Logger,
) *ReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	if timeout <= 0 {
		timeout = DefaultReconcileTimeout
	}

	logger = logger.With("component", "reconciliation_job")
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))

	return &ReconciliationJob{
		handler: handler,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		schedule: schedule,
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// Start schedules the job. Returns an error for an invalid cron expression.
func (j *ReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs a single reconciliation tick at the current time.
func (j *ReconciliationJob) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewReconcileProgressCommand(j.now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation job failed", "error", err)
		return
	}

	started := time.Now()
	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation job failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Reconciliation tick finished",
		"updated", result.UpdatedCount,
		"candidates", result.TotalCandidates,
		"duration", time.Since(started),
	)
}

// Stop stops scheduling and waits for a running tick to finish.
func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}
