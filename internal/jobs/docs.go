// Package jobs provides scheduled background tasks for the freight platform.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic sweeps the order lifecycle requires.
//
// # Available Jobs
//
// 1. BiddingExpiryJob - closes auctions whose deadline has passed without an
// accepted bid.
// 2. DelayDetectionJob - flags in-transit orders with no progress report
// within the configured threshold as delayed.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireBiddingHandler, detectDelaysHandler,
//		cfg.BiddingExpiryCron, cfg.DelayDetectionCron, cfg.DelayThreshold, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs take six-field cron expressions (with seconds), so operators can
// tune sweep frequency per environment. Each sweep is idempotent: orders and
// ledgers already handled are skipped on the next run.
package jobs
