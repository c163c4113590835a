package commands

import (
	"errors"
	"strings"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand asks for a status transition. CourierID claims the
// order; DeliveryCode is only checked when completing the delivery.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	status       order.Status
	courierID    string
	deliveryCode string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status string,
	courierID string,
	deliveryCode string,
) (UpdateOrderStatusCommand, error) {
	target, statusErr := order.ParseStatus(status)

	if err := errors.Join(orderID.Validate(), statusErr); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		orderID:      orderID,
		status:       target,
		courierID:    strings.TrimSpace(courierID),
		deliveryCode: deliveryCode,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateOrderStatusCommand) CourierID() string {
	return c.courierID
}

func (c UpdateOrderStatusCommand) DeliveryCode() string {
	return c.deliveryCode
}
