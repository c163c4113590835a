package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/pkg/errs"
)

// SetDriverAvailabilityCommandHandler toggles availability, creating the
// driver on first contact. A driver who becomes available is offered the
// oldest waiting order.
type SetDriverAvailabilityCommandHandler struct {
	uowFactory DriverUoWFactory
	policy     CourierOfferer
	logger     *slog.Logger
	now        func() time.Time
}

func NewSetDriverAvailabilityCommandHandler(
	uowFactory DriverUoWFactory,
	policy CourierOfferer,
	logger *slog.Logger,
) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		logger:     logger.With("component", "set-driver-availability"),
		now:        time.Now,
	}
}

func (h SetDriverAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd SetDriverAvailabilityCommand,
) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := h.upsert(ctx, cmd)
	if errors.Is(err, errs.ErrObjectAlreadyExists) {
		// lost a creation race; the row now exists and can be locked
		aggregate, err = h.upsert(ctx, cmd)
	}
	if err != nil {
		return nil, err
	}

	if aggregate.IsAvailable() {
		if err = h.policy.OfferOrdersToDriver(ctx, aggregate); err != nil {
			h.logger.WarnContext(ctx, "assignment policy failed",
				"driver_id", aggregate.ID(), "error", err)
		}
	}

	return aggregate, nil
}

func (h SetDriverAvailabilityCommandHandler) upsert(
	ctx context.Context,
	cmd SetDriverAvailabilityCommand,
) (*driver.Driver, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	now := h.now().UTC()

	aggregate, err := driverRepo.GetForUpdate(ctx, cmd.DriverID())
	isNew := errors.Is(err, errs.ErrObjectNotFound)
	switch {
	case isNew:
		if aggregate, err = driver.NewDriver(cmd.DriverID(), now); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if err = aggregate.SetAvailability(cmd.IsAvailable(), cmd.Location(), now); err != nil {
		return nil, err
	}

	if isNew {
		err = driverRepo.Add(ctx, aggregate)
	} else {
		err = driverRepo.Update(ctx, aggregate)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
