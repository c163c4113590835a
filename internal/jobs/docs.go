// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3) and managed through
// JobManager:
//
//	jobManager := jobs.NewJobManager(offerHandler, "@every 30s", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// OfferPreparedOrdersJob re-runs the courier offer for every prepared order
// nobody has picked up yet. Overlapping runs are skipped. Failed offers are
// logged and retried on the next tick.
package jobs
