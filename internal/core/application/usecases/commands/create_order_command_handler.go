package commands

import (
	"context"
	"log/slog"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/domain/services"
	"orderapi/internal/core/ports"
)

// CreateOrderCommandHandler geocodes missing coordinates, derives distance and
// ETA when both ends are located, and persists a pending order.
// It sends no notification; the caller announces the order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
	estimator  services.DistanceEstimator
	logger     *slog.Logger
	now        func() time.Time
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		estimator:  services.NewDistanceEstimator(),
		logger:     logger.With("component", "create-order"),
		now:        time.Now,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	pickup := h.locate(ctx, "pickup", cmd.PickupAddress())
	delivery := h.locate(ctx, "delivery", cmd.DeliveryAddress())

	var estimate *order.Estimate
	if from, to := pickup.Coordinates(), delivery.Coordinates(); from != nil && to != nil {
		e, err := h.estimator.Estimate(*from, *to)
		if err != nil {
			return nil, err
		}
		estimate = &e
	}

	createdAt := cmd.CreatedAt()
	if createdAt.IsZero() {
		createdAt = h.now().UTC()
	}

	aggregate, err := order.NewOrder(kernel.NewUUID(), order.Draft{
		MenuID:          cmd.MenuID(),
		ShopID:          cmd.ShopID(),
		CustomerID:      cmd.CustomerID(),
		Items:           cmd.Items(),
		PickupAddress:   pickup,
		DeliveryAddress: delivery,
		Estimate:        estimate,
		CreatedAt:       createdAt,
	})
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}

// locate returns the address unchanged when it already has coordinates or
// when geocoding fails.
func (h CreateOrderCommandHandler) locate(ctx context.Context, kind string, address kernel.Address) kernel.Address {
	if address.Coordinates() != nil || h.geocoder == nil {
		return address
	}

	coordinates, err := h.geocoder.Geocode(ctx, address)
	if err != nil {
		h.logger.WarnContext(ctx, "geocoding failed, continuing without coordinates",
			"address", kind, "query", address.Query(), "error", err)
		return address
	}

	located, err := address.WithCoordinates(coordinates)
	if err != nil {
		h.logger.WarnContext(ctx, "geocoder returned unusable coordinates",
			"address", kind, "error", err)
		return address
	}
	return located
}
