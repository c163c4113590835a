// Package testutil provides in-memory stand-ins for the record store and the
// notifier, for tests that drive several use cases end to end.
package testutil

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("no active transaction")

// Store keeps committed aggregates. Stored values are copies, so callers
// cannot change them without going through a repository.
type Store struct {
	mu      sync.Mutex
	orders  map[string]*order.Order
	drivers map[string]*driver.Driver
}

func NewStore() *Store {
	return &Store{
		orders:  make(map[string]*order.Order),
		drivers: make(map[string]*driver.Driver),
	}
}

// Order returns a copy of the committed order, or nil.
func (s *Store) Order(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id.String()]; ok {
		return cloneOrder(o)
	}
	return nil
}

// Driver returns a copy of the committed driver, or nil.
func (s *Store) Driver(id string) *driver.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drivers[id]; ok {
		return cloneDriver(d)
	}
	return nil
}

var _ ports.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes made after Begin and applies them on Commit.
// Writes made without Begin go straight to the store. There are no row locks.
type UnitOfWork struct {
	store   *Store
	active  bool
	orders  map[string]*order.Order
	drivers map[string]*driver.Driver
}

func (u *UnitOfWork) Begin(context.Context) error {
	if u.active {
		return nil
	}
	u.active = true
	u.orders = make(map[string]*order.Order)
	u.drivers = make(map[string]*driver.Driver)
	return nil
}

func (u *UnitOfWork) Commit(context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for id, o := range u.orders {
		u.store.orders[id] = o
	}
	for id, d := range u.drivers {
		u.store.drivers[id] = d
	}
	u.reset()
	return nil
}

func (u *UnitOfWork) Rollback(context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	u.reset()
	return nil
}

func (u *UnitOfWork) reset() {
	u.active = false
	u.orders = nil
	u.drivers = nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return orderRepository{uow: u}
}

func (u *UnitOfWork) DriverRepository() ports.DriverRepository {
	return driverRepository{uow: u}
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	id := aggregate.ID().String()
	if r.find(id) != nil {
		return errs.NewObjectAlreadyExistsError("order", id)
	}
	r.put(id, aggregate)
	return nil
}

func (r orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	id := aggregate.ID().String()
	if r.find(id) == nil {
		return errs.NewObjectNotFoundError("order", id)
	}
	r.put(id, aggregate)
	return nil
}

func (r orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if o := r.find(id.String()); o != nil {
		return cloneOrder(o), nil
	}
	return nil, errs.NewObjectNotFoundError("orderID", id.String())
}

func (r orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r orderRepository) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	r.uow.store.mu.Lock()
	all := make(map[string]*order.Order, len(r.uow.store.orders))
	for id, o := range r.uow.store.orders {
		all[id] = o
	}
	r.uow.store.mu.Unlock()
	for id, o := range r.uow.orders {
		all[id] = o
	}

	var out []*order.Order
	for _, o := range all {
		if matches(o, filter) {
			out = append(out, cloneOrder(o))
		}
	}
	slices.SortFunc(out, func(a, b *order.Order) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	return out, nil
}

func (r orderRepository) find(id string) *order.Order {
	if o, ok := r.uow.orders[id]; ok {
		return o
	}
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.store.orders[id]
}

func (r orderRepository) put(id string, aggregate *order.Order) {
	stored := cloneOrder(aggregate)
	if r.uow.active {
		r.uow.orders[id] = stored
		return
	}
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	r.uow.store.orders[id] = stored
}

func matches(o *order.Order, f ports.OrderFilter) bool {
	courierID := ""
	if c := o.CourierID(); c != nil {
		courierID = *c
	}

	switch {
	case f.ShopID != "" && o.ShopID() != f.ShopID,
		f.CustomerID != "" && o.CustomerID() != f.CustomerID,
		f.CourierID != "" && courierID != f.CourierID,
		f.Status != "" && o.Status() != f.Status,
		f.UnclaimedOnly && courierID != "":
		return false
	}
	return true
}

type driverRepository struct {
	uow *UnitOfWork
}

func (r driverRepository) Add(_ context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if r.find(aggregate.ID()) != nil {
		return errs.NewObjectAlreadyExistsError("driver", aggregate.ID())
	}
	r.put(aggregate)
	return nil
}

func (r driverRepository) Update(_ context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if r.find(aggregate.ID()) == nil {
		return errs.NewObjectNotFoundError("driver", aggregate.ID())
	}
	r.put(aggregate)
	return nil
}

func (r driverRepository) Get(_ context.Context, driverID string) (*driver.Driver, error) {
	if d := r.find(driverID); d != nil {
		return cloneDriver(d), nil
	}
	return nil, errs.NewObjectNotFoundError("driverID", driverID)
}

func (r driverRepository) GetForUpdate(ctx context.Context, driverID string) (*driver.Driver, error) {
	return r.Get(ctx, driverID)
}

func (r driverRepository) ListAvailable(context.Context) ([]*driver.Driver, error) {
	r.uow.store.mu.Lock()
	all := make(map[string]*driver.Driver, len(r.uow.store.drivers))
	for id, d := range r.uow.store.drivers {
		all[id] = d
	}
	r.uow.store.mu.Unlock()
	for id, d := range r.uow.drivers {
		all[id] = d
	}

	var out []*driver.Driver
	for _, d := range all {
		if d.IsAvailable() {
			out = append(out, cloneDriver(d))
		}
	}
	slices.SortFunc(out, func(a, b *driver.Driver) int {
		ta, tb := a.LastLocationUpdate(), b.LastLocationUpdate()
		switch {
		case ta == nil && tb == nil:
			return cmp.Compare(a.ID(), b.ID())
		case ta == nil:
			return 1
		case tb == nil:
			return -1
		}
		if c := tb.Compare(*ta); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	return out, nil
}

func (r driverRepository) find(id string) *driver.Driver {
	if d, ok := r.uow.drivers[id]; ok {
		return d
	}
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.store.drivers[id]
}

func (r driverRepository) put(aggregate *driver.Driver) {
	stored := cloneDriver(aggregate)
	if r.uow.active {
		r.uow.drivers[aggregate.ID()] = stored
		return
	}
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	r.uow.store.drivers[aggregate.ID()] = stored
}

func cloneOrder(o *order.Order) *order.Order {
	c, err := order.RestoreOrder(order.State{
		ID:              o.ID(),
		MenuID:          o.MenuID(),
		ShopID:          o.ShopID(),
		CustomerID:      o.CustomerID(),
		CourierID:       o.CourierID(),
		Items:           o.Items(),
		PickupAddress:   o.PickupAddress(),
		DeliveryAddress: o.DeliveryAddress(),
		Estimate:        o.Estimate(),
		Status:          o.Status(),
		DeliveryCode:    o.DeliveryCode(),
		AssignedAt:      o.AssignedAt(),
		DeliveredAt:     o.DeliveredAt(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}

func cloneDriver(d *driver.Driver) *driver.Driver {
	c, err := driver.RestoreDriver(driver.State{
		ID:                 d.ID(),
		IsAvailable:        d.IsAvailable(),
		Position:           d.Position(),
		LastLocationUpdate: d.LastLocationUpdate(),
		CurrentOrderID:     d.CurrentOrderID(),
		CreatedAt:          d.CreatedAt(),
		UpdatedAt:          d.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return c
}
