package order

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidDeliveryCode = errors.New("invalid delivery code")
	ErrAlreadyAssigned     = errors.New("order is already assigned to another courier")
)

// InvalidTransitionError reports a target status outside the allowed-next set.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvalidDeliveryCodeError is returned when completing a delivery without
// the code generated at creation. Missing is true when no code was supplied.
type InvalidDeliveryCodeError struct {
	Missing bool
}

func (e *InvalidDeliveryCodeError) Error() string {
	if e.Missing {
		return "delivery code is required to complete delivery"
	}
	return ErrInvalidDeliveryCode.Error()
}

func (e *InvalidDeliveryCodeError) Unwrap() error {
	return ErrInvalidDeliveryCode
}

// AlreadyAssignedError is returned when a second courier tries to claim an order.
type AlreadyAssignedError struct {
	CurrentCourierID   string
	RequestedCourierID string
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: assigned to %s, requested by %s",
		ErrAlreadyAssigned, e.CurrentCourierID, e.RequestedCourierID)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}
