package commands

import (
	"context"
	"log/slog"
	"time"

	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/ports"
)

type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewUpdateDriverLocationCommandHandler(
	uowFactory DriverUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "update-driver-location"),
		now:        time.Now,
	}
}

// Handle stores the position. Unknown drivers yield errs.ErrObjectNotFound.
func (h UpdateDriverLocationCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateDriverLocationCommand,
) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	aggregate, err := driverRepo.GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.UpdateLocation(cmd.Coordinates(), h.now().UTC()); err != nil {
		return nil, err
	}

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if orderID := cmd.OrderID(); orderID != nil {
		h.logger.DebugContext(ctx, "forwarding driver location",
			"driver_id", aggregate.ID(), "order_id", orderID.String())
		h.notifier.NotifyRole(ports.RoleCustomer, views.LocationUpdateEvent{
			Type:           views.EventLocationUpdate,
			OrderID:        orderID.String(),
			DriverID:       aggregate.ID(),
			DriverLocation: views.NewCoordinatesView(cmd.Coordinates()),
		})
	}

	return aggregate, nil
}
