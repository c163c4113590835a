package commands

import (
	"encoding/json"
	"errors"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/pkg/errs"
	"orderapi/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand is the draft of an order announced by an order.created event.
// Addresses may lack coordinates; the handler geocodes them.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	menuID          string
	shopID          string
	customerID      string
	items           []json.RawMessage
	pickupAddress   kernel.Address
	deliveryAddress kernel.Address
	createdAt       time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates that both addresses are present. A zero
// createdAt is replaced by the handler's clock.
func NewCreateOrderCommand(
	menuID, shopID, customerID string,
	items []json.RawMessage,
	pickupAddress, deliveryAddress kernel.Address,
	createdAt time.Time,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		menuID:     menuID,
		shopID:     shopID,
		customerID: customerID,
		items:      items,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPickupAddress(pickupAddress),
		cmd.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) MenuID() string {
	return c.menuID
}

func (c CreateOrderCommand) ShopID() string {
	return c.shopID
}

func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

func (c CreateOrderCommand) Items() []json.RawMessage {
	return c.items
}

func (c CreateOrderCommand) PickupAddress() kernel.Address {
	return c.pickupAddress
}

func (c CreateOrderCommand) DeliveryAddress() kernel.Address {
	return c.deliveryAddress
}

func (c CreateOrderCommand) CreatedAt() time.Time {
	return c.createdAt
}

func (c *CreateOrderCommand) setPickupAddress(a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shopAddress", err)
	}
	c.pickupAddress = a
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(a kernel.Address) error {
	if err := a.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("deliveryAddress", err)
	}
	c.deliveryAddress = a
	return nil
}
