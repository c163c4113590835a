package jobs

import (
	"context"
	"log/slog"

	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/metrics"

	"github.com/robfig/cron/v3"
)

const DefaultOfferSchedule = "@every 30s"

// PreparedOrdersOfferer is implemented by commands.OfferPreparedOrdersCommandHandler.
type PreparedOrdersOfferer interface {
	Handle(ctx context.Context, cmd commands.OfferPreparedOrdersCommand) (int, error)
}

// OfferPreparedOrdersJob periodically offers every unclaimed prepared order
// to the couriers again, so orders prepared while nobody was online are not
// forgotten.
type OfferPreparedOrdersJob struct {
	handler  PreparedOrdersOfferer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOfferPreparedOrdersJob(handler PreparedOrdersOfferer, schedule string, logger *slog.Logger) *OfferPreparedOrdersJob {
	if schedule == "" {
		schedule = DefaultOfferSchedule
	}

	return &OfferPreparedOrdersJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "offer_prepared_orders_job"),
	}
}

func (j *OfferPreparedOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer prepared orders job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running offer round to finish.
func (j *OfferPreparedOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer prepared orders job stopped")
}

// Run executes one offer round.
func (j *OfferPreparedOrdersJob) Run(ctx context.Context) {
	offered, err := j.handler.Handle(ctx, commands.NewOfferPreparedOrdersCommand())
	if offered > 0 {
		metrics.OrderOffersTotal.WithLabelValues("scheduled").Add(float64(offered))
		j.logger.DebugContext(ctx, "Prepared orders offered again", "count", offered)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Offer prepared orders job failed", "error", err)
	}
}
