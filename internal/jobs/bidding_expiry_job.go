package jobs

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// BiddingExpiryJob periodically closes auctions whose deadline has passed.
// Expired ledgers are closed without a winner and the order's bidding flag
// is cleared.
type BiddingExpiryJob struct {
	handler  *commands.ExpireBiddingCommandHandler
	cronSpec string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewBiddingExpiryJob creates the auction expiry sweep. The cron spec uses
// the six-field form with seconds.
func NewBiddingExpiryJob(
	handler *commands.ExpireBiddingCommandHandler,
	cronSpec string,
	logger *slog.Logger,
) *BiddingExpiryJob {
	return &BiddingExpiryJob{
		handler:  handler,
		cronSpec: cronSpec,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "bidding_expiry_job"),
	}
}

// Start schedules the sweep.
func (j *BiddingExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.cronSpec, func() {
		ctx := context.Background()
		cmd := commands.NewExpireBiddingCommand(time.Now())

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "bidding expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "bidding expiry job started", "cron", j.cronSpec)
	return nil
}

// Stop stops the sweep.
func (j *BiddingExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "bidding expiry job stopped")
}
