package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	offerPreparedOrdersJob *OfferPreparedOrdersJob
}

// NewJobManager creates the job manager. An empty offerSchedule disables
// the re-offer job.
func NewJobManager(
	offerHandler PreparedOrdersOfferer,
	offerSchedule string,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{}
	if offerSchedule != "" {
		jm.offerPreparedOrdersJob = NewOfferPreparedOrdersJob(offerHandler, offerSchedule, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if jm.offerPreparedOrdersJob == nil {
		return nil
	}

	if err := jm.offerPreparedOrdersJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer prepared orders job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.offerPreparedOrdersJob != nil {
		jm.offerPreparedOrdersJob.Stop()
	}
}
