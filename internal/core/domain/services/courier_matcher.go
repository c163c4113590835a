package services

import (
	"errors"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/order"
)

// ErrNoCandidate is returned when the assignment policy finds nothing to offer.
var ErrNoCandidate = errors.New("no assignment candidate")

// CourierMatcher picks exactly one candidate for a targeted offer. It never
// reserves anything: the first courier to claim the order through a status
// update wins.
//
// Selection rules:
//   - for a free driver who just became available: the oldest unclaimed
//     prepared order
//   - for an order that just became prepared: the free driver with the most
//     recent location report; drivers that never reported come last
//
// Ties keep the first candidate in input order.
type CourierMatcher struct{}

func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

// PickOrder selects the order to offer to d. A driver who is not free gets
// nothing.
func (m CourierMatcher) PickOrder(d *driver.Driver, orders []*order.Order) (*order.Order, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if !d.IsFree() {
		return nil, ErrNoCandidate
	}

	var best *order.Order
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if !o.IsUnclaimed() {
			continue
		}
		if best == nil || o.CreatedAt().Before(best.CreatedAt()) {
			best = o
		}
	}

	if best == nil {
		return nil, ErrNoCandidate
	}
	return best, nil
}

// PickDriver selects the driver to offer o to.
func (m CourierMatcher) PickDriver(o *order.Order, drivers []*driver.Driver) (*driver.Driver, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var (
		best       *driver.Driver
		bestReport time.Time
	)
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if !d.IsFree() {
			continue
		}

		var reported time.Time
		if last := d.LastLocationUpdate(); last != nil {
			reported = *last
		}
		if best == nil || reported.After(bestReport) {
			best = d
			bestReport = reported
		}
	}

	if best == nil {
		return nil, ErrNoCandidate
	}
	return best, nil
}
