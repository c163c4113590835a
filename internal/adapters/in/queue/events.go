package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/pkg/errs"
)

const (
	EventOrderCreated  = "order.created"
	EventDriverCreated = "driver.created"
)

// envelope is the wire shape of every upstream message.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func decodeEnvelope(body []byte) (envelope, error) {
	var e envelope
	if err := json.Unmarshal(body, &e); err != nil {
		return envelope{}, errs.NewValueIsInvalidErrorWithCause("message", err)
	}
	if e.Event == "" {
		return envelope{}, errs.NewValueIsRequiredError("event")
	}
	return e, nil
}

func decodeData(e envelope, out any) error {
	if len(e.Data) == 0 {
		return errs.NewValueIsRequiredError("data")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("%s data", e.Event), err)
	}
	return nil
}

type coordinatesPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type addressPayload struct {
	Street      string              `json:"street"`
	City        string              `json:"city"`
	ZipCode     string              `json:"zipCode"`
	Coordinates *coordinatesPayload `json:"coordinates,omitempty"`
}

type orderCreatedPayload struct {
	MenuID          string            `json:"menuId"`
	ShopID          string            `json:"shopId"`
	CustomerID      string            `json:"customerId"`
	Items           []json.RawMessage `json:"items"`
	ShopAddress     *addressPayload   `json:"shopAddress"`
	DeliveryAddress *addressPayload   `json:"deliveryAddress"`
	CreatedAt       *time.Time        `json:"createdAt"`
}

type driverCreatedPayload struct {
	DriverID  string     `json:"driverId"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (p *addressPayload) toAddress(name string) (kernel.Address, error) {
	if p == nil {
		return kernel.Address{}, errs.NewValueIsRequiredError(name)
	}

	address, err := kernel.NewAddress(p.Street, p.City, p.ZipCode)
	if err != nil {
		return kernel.Address{}, err
	}
	if p.Coordinates == nil {
		return address, nil
	}

	coordinates, err := kernel.NewCoordinates(p.Coordinates.Latitude, p.Coordinates.Longitude)
	if err != nil {
		return kernel.Address{}, err
	}
	return address.WithCoordinates(coordinates)
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
