package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	biddingExpiryJob  *BiddingExpiryJob
	delayDetectionJob *DelayDetectionJob
}

// NewJobManager creates a job manager with all required jobs wired to their
// command handlers.
func NewJobManager(
	expireBiddingHandler *commands.ExpireBiddingCommandHandler,
	detectDelaysHandler *commands.DetectDelaysCommandHandler,
	biddingExpiryCron string,
	delayDetectionCron string,
	delayThreshold time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		biddingExpiryJob:  NewBiddingExpiryJob(expireBiddingHandler, biddingExpiryCron, logger),
		delayDetectionJob: NewDelayDetectionJob(detectDelaysHandler, delayDetectionCron, delayThreshold, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.biddingExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start bidding expiry job: %w", err)
	}

	if err := jm.delayDetectionJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.biddingExpiryJob.Stop()
		return fmt.Errorf("failed to start delay detection job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.biddingExpiryJob.Stop()
	jm.delayDetectionJob.Stop()
}
