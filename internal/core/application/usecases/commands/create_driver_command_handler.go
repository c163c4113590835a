package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/pkg/errs"
)

// CreateDriverCommandHandler registers a driver once. A driver that already
// exists is left untouched and the call still succeeds.
type CreateDriverCommandHandler struct {
	uowFactory DriverUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

func NewCreateDriverCommandHandler(uowFactory DriverUoWFactory, logger *slog.Logger) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "create-driver"),
		now:        time.Now,
	}
}

// Handle reports whether a new driver record was written.
func (h CreateDriverCommandHandler) Handle(ctx context.Context, cmd CreateDriverCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	_, err := driverRepo.Get(ctx, cmd.DriverID())
	if err == nil {
		h.logger.InfoContext(ctx, "driver already exists, skipping", "driver_id", cmd.DriverID())
		return false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return false, err
	}

	createdAt := cmd.CreatedAt()
	if createdAt.IsZero() {
		createdAt = h.now().UTC()
	}

	aggregate, err := driver.NewDriver(cmd.DriverID(), createdAt)
	if err != nil {
		return false, err
	}

	if err = driverRepo.Add(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrObjectAlreadyExists) {
			h.logger.InfoContext(ctx, "driver created concurrently, skipping", "driver_id", cmd.DriverID())
			return false, nil
		}
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
