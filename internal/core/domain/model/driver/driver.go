package driver

import (
	"errors"
	"strings"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/pkg/errs"
	"orderapi/internal/pkg/guard"
)

var (
	// ErrDriverIDIsRequired is returned for a blank external driver id.
	ErrDriverIDIsRequired = errs.NewValueIsRequiredError("driverId")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")
	// ErrDriverIsBusy is returned when assigning an order to a driver who already carries another one.
	ErrDriverIsBusy = errors.New("driver already carries another order")
)

// Position is a reported location and the time it was recorded.
type Position struct {
	Coordinates kernel.Coordinates
	RecordedAt  time.Time
}

// State is the persisted form of a driver.
type State struct {
	ID                 string
	IsAvailable        bool
	Position           *Position
	LastLocationUpdate *time.Time
	CurrentOrderID     *kernel.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Driver is the aggregate root of a courier.
type Driver struct {
	// id is the identifier issued by the upstream driver registry
	id string
	// isAvailable is toggled by the courier app
	isAvailable bool
	// position is nil until the first location ping
	position *Position
	// lastLocationUpdate orders drivers when matching prepared orders
	lastLocationUpdate *time.Time
	// currentOrderID is set while the driver carries an order
	currentOrderID *kernel.UUID
	createdAt      time.Time
	updatedAt      time.Time
	guard          guard.ConstructorGuard
}

// NewDriver registers an unavailable driver without a position.
func NewDriver(id string, createdAt time.Time) (*Driver, error) {
	d := &Driver{
		createdAt: createdAt,
		updatedAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(d.setID(id), requireTime("createdAt", createdAt)); err != nil {
		return nil, err
	}

	return d, nil
}

func RestoreDriver(s State) (*Driver, error) {
	d := &Driver{
		isAvailable:        s.IsAvailable,
		lastLocationUpdate: s.LastLocationUpdate,
		currentOrderID:     s.CurrentOrderID,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := d.setID(s.ID); err != nil {
		return nil, err
	}

	if s.Position != nil {
		if err := s.Position.Coordinates.Validate(); err != nil {
			return nil, err
		}
		p := *s.Position
		d.position = &p
	}

	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() string {
	return d.id
}

func (d *Driver) IsAvailable() bool {
	return d.isAvailable
}

// Position returns nil before the first location ping.
func (d *Driver) Position() *Position {
	if d.position == nil {
		return nil
	}
	p := *d.position
	return &p
}

func (d *Driver) LastLocationUpdate() *time.Time {
	if d.lastLocationUpdate == nil {
		return nil
	}
	t := *d.lastLocationUpdate
	return &t
}

func (d *Driver) CurrentOrderID() *kernel.UUID {
	if d.currentOrderID == nil {
		return nil
	}
	id := *d.currentOrderID
	return &id
}

func (d *Driver) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Driver) UpdatedAt() time.Time {
	return d.updatedAt
}

// IsFree reports an available driver who carries no order.
func (d *Driver) IsFree() bool {
	return d.isAvailable && d.currentOrderID == nil
}

// SetAvailability toggles availability and, when a position is supplied,
// records it at the same instant.
func (d *Driver) SetAvailability(available bool, coordinates *kernel.Coordinates, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if coordinates != nil {
		if err := d.UpdateLocation(*coordinates, at); err != nil {
			return err
		}
	}

	d.isAvailable = available
	d.updatedAt = at
	return nil
}

// UpdateLocation records a location ping.
func (d *Driver) UpdateLocation(coordinates kernel.Coordinates, at time.Time) error {
	if err := errors.Join(d.Validate(), coordinates.Validate(), requireTime("timestamp", at)); err != nil {
		return err
	}

	d.position = &Position{Coordinates: coordinates, RecordedAt: at}
	recorded := at
	d.lastLocationUpdate = &recorded
	d.updatedAt = at
	return nil
}

// AssignOrder marks the driver as carrying orderID. Re-assigning the same
// order is a no-op.
func (d *Driver) AssignOrder(orderID kernel.UUID, at time.Time) error {
	if err := errors.Join(d.Validate(), orderID.Validate()); err != nil {
		return err
	}
	if d.currentOrderID != nil {
		if d.currentOrderID.IsEqual(orderID) {
			return nil
		}
		return ErrDriverIsBusy
	}

	d.currentOrderID = &orderID
	d.updatedAt = at
	return nil
}

// ReleaseOrder clears the current order if it is orderID and reports whether
// anything changed.
func (d *Driver) ReleaseOrder(orderID kernel.UUID, at time.Time) bool {
	if d.currentOrderID == nil || !d.currentOrderID.IsEqual(orderID) {
		return false
	}

	d.currentOrderID = nil
	d.updatedAt = at
	return true
}

func (d *Driver) setID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrDriverIDIsRequired
	}
	d.id = id
	return nil
}

func requireTime(name string, t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
