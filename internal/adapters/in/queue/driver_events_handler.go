package queue

import (
	"context"
	"fmt"
	"log/slog"

	"orderapi/internal/core/application/usecases/commands"
)

type DriverCreator interface {
	Handle(ctx context.Context, cmd commands.CreateDriverCommand) (bool, error)
}

// DriverEventsHandler registers drivers announced by driver.created messages.
type DriverEventsHandler struct {
	creator DriverCreator
	logger  *slog.Logger
}

func NewDriverEventsHandler(creator DriverCreator, logger *slog.Logger) *DriverEventsHandler {
	return &DriverEventsHandler{
		creator: creator,
		logger:  logger.With("component", "driver-events"),
	}
}

func (h *DriverEventsHandler) Handle(ctx context.Context, body []byte) error {
	e, err := decodeEnvelope(body)
	if err != nil {
		return err
	}

	if e.Event != EventDriverCreated {
		return fmt.Errorf("%w: %s", ErrUnsupportedEvent, e.Event)
	}

	var payload driverCreatedPayload
	if err := decodeData(e, &payload); err != nil {
		return err
	}

	cmd, err := commands.NewCreateDriverCommand(payload.DriverID, timeOrZero(payload.CreatedAt))
	if err != nil {
		return err
	}

	created, err := h.creator.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	if created {
		h.logger.Info("driver created", "driver_id", cmd.DriverID())
	}

	return nil
}
