package order

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/pkg/errs"
	"orderapi/internal/pkg/guard"
)

const (
	deliveryCodeMin   = 1000
	deliveryCodeRange = 9000
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Estimate is the distance and ETA derived once, at creation, from the two addresses.
type Estimate struct {
	DistanceKm float64
	Minutes    int
}

// Draft carries the business attributes of an order about to be created.
type Draft struct {
	MenuID          string
	ShopID          string
	CustomerID      string
	Items           []json.RawMessage
	PickupAddress   kernel.Address
	DeliveryAddress kernel.Address
	Estimate        *Estimate
	CreatedAt       time.Time
}

// State is the full persisted form of an order, used to restore it from storage.
type State struct {
	ID              kernel.UUID
	MenuID          string
	ShopID          string
	CustomerID      string
	CourierID       *string
	Items           []json.RawMessage
	PickupAddress   kernel.Address
	DeliveryAddress kernel.Address
	Estimate        *Estimate
	Status          Status
	DeliveryCode    string
	AssignedAt      *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Order is the aggregate root of a single delivery, from the shop to the customer.
//
// Invariants:
//   - the delivery code is generated by NewOrder and never changes
//   - status only moves along the transition table (see Status)
//   - a courier, once set, is only re-confirmed, never replaced
//   - distance and ETA are fixed at creation
type Order struct {
	id              kernel.UUID
	menuID          string
	shopID          string
	customerID      string
	courierID       *string
	items           []json.RawMessage
	pickupAddress   kernel.Address
	deliveryAddress kernel.Address
	estimate        *Estimate
	status          Status
	deliveryCode    string
	assignedAt      *time.Time
	deliveredAt     *time.Time
	createdAt       time.Time
	updatedAt       time.Time
	guard           guard.ConstructorGuard
}

// NewOrder creates a pending order with a fresh 4-digit delivery code.
func NewOrder(id kernel.UUID, draft Draft) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setReferences(draft.MenuID, draft.ShopID, draft.CustomerID),
		o.setAddresses(draft.PickupAddress, draft.DeliveryAddress),
		o.setEstimate(draft.Estimate),
		o.setCreatedAt(draft.CreatedAt),
	); err != nil {
		return nil, err
	}
	o.items = cloneItems(draft.Items)

	code, err := newDeliveryCode()
	if err != nil {
		return nil, err
	}
	o.deliveryCode = code

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state without generating anything.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		status:       s.Status,
		deliveryCode: s.DeliveryCode,
		assignedAt:   s.AssignedAt,
		deliveredAt:  s.DeliveredAt,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		items:        cloneItems(s.Items),
		guard:        guard.NewConstructorGuard(),
	}

	if s.CourierID != nil {
		courierID := *s.CourierID
		o.courierID = &courierID
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setReferences(s.MenuID, s.ShopID, s.CustomerID),
		o.setAddresses(s.PickupAddress, s.DeliveryAddress),
		o.setEstimate(s.Estimate),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) MenuID() string {
	return o.menuID
}

func (o *Order) ShopID() string {
	return o.shopID
}

func (o *Order) CustomerID() string {
	return o.customerID
}

// CourierID returns nil while no courier has claimed the order.
func (o *Order) CourierID() *string {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

func (o *Order) Items() []json.RawMessage {
	return cloneItems(o.items)
}

func (o *Order) PickupAddress() kernel.Address {
	return o.pickupAddress
}

func (o *Order) DeliveryAddress() kernel.Address {
	return o.deliveryAddress
}

// Estimate returns nil when either address could not be located at creation.
func (o *Order) Estimate() *Estimate {
	if o.estimate == nil {
		return nil
	}
	e := *o.estimate
	return &e
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) DeliveryCode() string {
	return o.deliveryCode
}

func (o *Order) AssignedAt() *time.Time {
	return copyTime(o.assignedAt)
}

func (o *Order) DeliveredAt() *time.Time {
	return copyTime(o.deliveredAt)
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsUnclaimed reports a prepared order that no courier has taken yet.
func (o *Order) IsUnclaimed() bool {
	return o.status == Prepared && o.courierID == nil
}

// Transition moves the order to target. All checks run before any field changes,
// so a failed call leaves the order untouched.
//
// courierID is optional; when set it claims the order for that courier unless
// another courier already holds it. deliveryCode is required when target is Delivered.
func (o *Order) Transition(target Status, courierID string, deliveryCode string, at time.Time) error {
	if err := errors.Join(o.Validate(), target.Validate()); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(target) {
		return NewInvalidTransitionError(o.status, target)
	}

	if target == Delivered {
		if err := o.verifyDeliveryCode(deliveryCode); err != nil {
			return err
		}
	}

	courierID = strings.TrimSpace(courierID)
	claim := false
	if courierID != "" {
		if o.courierID != nil && *o.courierID != courierID {
			return &AlreadyAssignedError{
				CurrentCourierID:   *o.courierID,
				RequestedCourierID: courierID,
			}
		}
		claim = o.courierID == nil
	}

	o.status = target
	o.updatedAt = at
	if claim {
		o.courierID = &courierID
		assignedAt := at
		o.assignedAt = &assignedAt
	}
	if target == Delivered {
		deliveredAt := at
		o.deliveredAt = &deliveredAt
	}

	return nil
}

func (o *Order) verifyDeliveryCode(code string) error {
	if code == "" {
		return &InvalidDeliveryCodeError{Missing: true}
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(o.deliveryCode)) != 1 {
		return &InvalidDeliveryCodeError{}
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setReferences(menuID, shopID, customerID string) error {
	var err error
	if menuID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("menuId"))
	}
	if shopID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("shopId"))
	}
	if customerID == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("customerId"))
	}
	if err != nil {
		return err
	}

	o.menuID = menuID
	o.shopID = shopID
	o.customerID = customerID
	return nil
}

func (o *Order) setAddresses(pickup, delivery kernel.Address) error {
	var err error
	if pickup.Validate() != nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("pickupAddress"))
	}
	if delivery.Validate() != nil {
		err = errors.Join(err, errs.NewValueIsRequiredError("deliveryAddress"))
	}
	if err != nil {
		return err
	}

	o.pickupAddress = pickup
	o.deliveryAddress = delivery
	return nil
}

func (o *Order) setEstimate(estimate *Estimate) error {
	if estimate == nil {
		return nil
	}
	if estimate.DistanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%v is negative", estimate.DistanceKm))
	}
	if estimate.Minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedDeliveryTime", fmt.Errorf("%d is negative", estimate.Minutes))
	}
	e := *estimate
	o.estimate = &e
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	o.updatedAt = createdAt
	return nil
}

// newDeliveryCode draws uniformly from 1000..9999.
func newDeliveryCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(deliveryCodeRange))
	if err != nil {
		return "", fmt.Errorf("generate delivery code: %w", err)
	}
	return fmt.Sprintf("%d", deliveryCodeMin+n.Int64()), nil
}

func cloneItems(items []json.RawMessage) []json.RawMessage {
	cloned := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		cloned = append(cloned, slices.Clone(item))
	}
	return cloned
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
