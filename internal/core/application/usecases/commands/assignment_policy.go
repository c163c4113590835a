package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/domain/services"
	"orderapi/internal/core/ports"
)

// CourierOfferer runs the assignment policy from either side.
type CourierOfferer interface {
	OfferOrdersToDriver(ctx context.Context, d *driver.Driver) error
	OfferOrderToCouriers(ctx context.Context, o *order.Order) error
}

var _ CourierOfferer = (*AssignmentPolicy)(nil)

// AssignmentPolicy sends best-effort offers to couriers. Nothing is reserved:
// the order stays unclaimed until a courier confirms it through a status update.
type AssignmentPolicy struct {
	orderUoWFactory  OrderUoWFactory
	driverUoWFactory DriverUoWFactory
	matcher          services.CourierMatcher
	notifier         ports.Notifier
	logger           *slog.Logger
}

func NewAssignmentPolicy(
	orderUoWFactory OrderUoWFactory,
	driverUoWFactory DriverUoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) *AssignmentPolicy {
	return &AssignmentPolicy{
		orderUoWFactory:  orderUoWFactory,
		driverUoWFactory: driverUoWFactory,
		matcher:          services.NewCourierMatcher(),
		notifier:         notifier,
		logger:           logger.With("component", "assignment-policy"),
	}
}

// OfferOrdersToDriver offers the oldest unclaimed prepared order to a driver
// who just became available. Having nothing to offer is not an error.
func (p *AssignmentPolicy) OfferOrdersToDriver(ctx context.Context, d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}

	orders, err := p.orderUoWFactory.Create().OrderRepository().List(ctx, ports.OrderFilter{
		Status:        order.Prepared,
		UnclaimedOnly: true,
	})
	if err != nil {
		return err
	}

	candidate, err := p.matcher.PickOrder(d, orders)
	if errors.Is(err, services.ErrNoCandidate) {
		p.logger.DebugContext(ctx, "no unclaimed order for driver", "driver_id", d.ID())
		return nil
	}
	if err != nil {
		return err
	}

	p.offer(ctx, candidate, d.ID())
	return nil
}

// OfferOrderToCouriers offers a freshly prepared order to the free driver with
// the most recent location report, or announces it to every courier when no
// driver is free. An order that already has a courier is not offered.
func (p *AssignmentPolicy) OfferOrderToCouriers(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.IsUnclaimed() {
		p.logger.DebugContext(ctx, "order already claimed", "order_id", o.ID().String())
		return nil
	}

	drivers, err := p.driverUoWFactory.Create().DriverRepository().ListAvailable(ctx)
	if err != nil {
		return err
	}

	candidate, err := p.matcher.PickDriver(o, drivers)
	if errors.Is(err, services.ErrNoCandidate) {
		p.logger.InfoContext(ctx, "no free driver, announcing to all couriers", "order_id", o.ID().String())
		p.notifier.NotifyRole(ports.RoleCourier, views.OrderEvent{
			Type:  views.EventOrderPrepared,
			Order: views.NewPublicOrderView(o),
		})
		return nil
	}
	if err != nil {
		return err
	}

	p.offer(ctx, o, candidate.ID())
	return nil
}

func (p *AssignmentPolicy) offer(ctx context.Context, o *order.Order, driverID string) {
	p.logger.InfoContext(ctx, "offering order", "order_id", o.ID().String(), "driver_id", driverID)
	p.notifier.NotifyUser(ports.RoleCourier, driverID, views.OrderEvent{
		Type:           views.EventOrderAvailable,
		Order:          views.NewPublicOrderView(o),
		TargetDriverID: driverID,
	})
}
