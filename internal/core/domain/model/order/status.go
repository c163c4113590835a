package order

import (
	"fmt"
	"slices"

	"orderapi/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ──> confirmed ──> prepared ──> picked_up ──> delivered
//	   │            │             │             │
//	   └────────────┴─────────────┴─────────────┴──────> cancelled
//
// delivered and cancelled are terminal.
type Status string

const (
	Pending   Status = "pending"
	Confirmed Status = "confirmed"
	Prepared  Status = "prepared"
	PickedUp  Status = "picked_up"
	Delivered Status = "delivered"
	Cancelled Status = "cancelled"
)

// transitions is the authoritative table of allowed next states.
var transitions = map[Status][]Status{
	Pending:   {Confirmed, Cancelled},
	Confirmed: {Prepared, Cancelled},
	Prepared:  {PickedUp, Cancelled},
	PickedUp:  {Delivered, Cancelled},
	Delivered: {},
	Cancelled: {},
}

// ParseStatus converts the wire form of a status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo consults the transition table only.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

// AllowedNext returns a copy of the allowed next states of s.
func (s Status) AllowedNext() []Status {
	return slices.Clone(transitions[s])
}
