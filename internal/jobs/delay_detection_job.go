package jobs

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DelayDetectionJob periodically flags in-transit orders that have gone
// silent: no progress report within the configured threshold marks the
// order delayed so dispatch and the customer find out.
type DelayDetectionJob struct {
	handler   *commands.DetectDelaysCommandHandler
	cronSpec  string
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewDelayDetectionJob creates the delay sweep. The cron spec uses the
// six-field form with seconds; threshold is how long an in-transit order may
// go without progress before it is flagged.
func NewDelayDetectionJob(
	handler *commands.DetectDelaysCommandHandler,
	cronSpec string,
	threshold time.Duration,
	logger *slog.Logger,
) *DelayDetectionJob {
	return &DelayDetectionJob{
		handler:   handler,
		cronSpec:  cronSpec,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "delay_detection_job"),
	}
}

// Start schedules the sweep.
func (j *DelayDetectionJob) Start() error {
	_, err := j.cron.AddFunc(j.cronSpec, func() {
		ctx := context.Background()

		cmd, err := commands.NewDetectDelaysCommand(time.Now(), j.threshold)
		if err != nil {
			j.logger.ErrorContext(ctx, "failed to build delay detection command", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "delay detection sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "delay detection job started",
		"cron", j.cronSpec, "threshold", j.threshold)
	return nil
}

// Stop stops the sweep.
func (j *DelayDetectionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "delay detection job stopped")
}
