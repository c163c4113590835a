// Package views holds the JSON shapes the service exposes: order and driver
// read models returned by queries and the real-time event payloads.
package views

import (
	"encoding/json"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
)

type CoordinatesView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AddressView struct {
	Street      string           `json:"street"`
	City        string           `json:"city"`
	ZipCode     string           `json:"zipCode"`
	Coordinates *CoordinatesView `json:"coordinates,omitempty"`
}

type OrderView struct {
	ID                    string            `json:"id"`
	MenuID                string            `json:"menuId"`
	ShopID                string            `json:"shopId"`
	CustomerID            string            `json:"customerId"`
	CourierID             *string           `json:"courierId,omitempty"`
	Items                 []json.RawMessage `json:"items"`
	Status                string            `json:"status"`
	PickupAddress         AddressView       `json:"pickupAddress"`
	DeliveryAddress       AddressView       `json:"deliveryAddress"`
	Distance              *float64          `json:"distance,omitempty"`
	EstimatedDeliveryTime *int              `json:"estimatedDeliveryTime,omitempty"`
	DeliveryCode          string            `json:"deliveryCode,omitempty"`
	AssignedAt            *time.Time        `json:"assignedAt,omitempty"`
	DeliveredAt           *time.Time        `json:"deliveredAt,omitempty"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

type LocationView struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type DriverView struct {
	DriverID           string        `json:"driverId"`
	IsAvailable        bool          `json:"isAvailable"`
	CurrentLocation    *LocationView `json:"currentLocation,omitempty"`
	LastLocationUpdate *time.Time    `json:"lastLocationUpdate,omitempty"`
	CurrentOrderID     *string       `json:"currentOrderId,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// NewOrderView renders the full order, delivery code included. It is meant for
// request/response endpoints only.
func NewOrderView(o *order.Order) OrderView {
	v := OrderView{
		ID:              o.ID().String(),
		MenuID:          o.MenuID(),
		ShopID:          o.ShopID(),
		CustomerID:      o.CustomerID(),
		CourierID:       o.CourierID(),
		Items:           o.Items(),
		Status:          o.Status().String(),
		PickupAddress:   NewAddressView(o.PickupAddress()),
		DeliveryAddress: NewAddressView(o.DeliveryAddress()),
		DeliveryCode:    o.DeliveryCode(),
		AssignedAt:      o.AssignedAt(),
		DeliveredAt:     o.DeliveredAt(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if e := o.Estimate(); e != nil {
		distance, minutes := e.DistanceKm, e.Minutes
		v.Distance = &distance
		v.EstimatedDeliveryTime = &minutes
	}
	return v
}

// NewPublicOrderView is NewOrderView without the delivery code, for payloads
// pushed to real-time subscribers.
func NewPublicOrderView(o *order.Order) OrderView {
	v := NewOrderView(o)
	v.DeliveryCode = ""
	return v
}

func NewOrderViews(orders []*order.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderView(o))
	}
	return out
}

func NewAddressView(a kernel.Address) AddressView {
	v := AddressView{
		Street:  a.Street(),
		City:    a.City(),
		ZipCode: a.ZipCode(),
	}
	if c := a.Coordinates(); c != nil {
		cv := NewCoordinatesView(*c)
		v.Coordinates = &cv
	}
	return v
}

func NewCoordinatesView(c kernel.Coordinates) CoordinatesView {
	return CoordinatesView{Latitude: c.Latitude(), Longitude: c.Longitude()}
}

func NewDriverView(d *driver.Driver) DriverView {
	v := DriverView{
		DriverID:           d.ID(),
		IsAvailable:        d.IsAvailable(),
		LastLocationUpdate: d.LastLocationUpdate(),
		CreatedAt:          d.CreatedAt(),
		UpdatedAt:          d.UpdatedAt(),
	}
	if p := d.Position(); p != nil {
		v.CurrentLocation = NewLocationView(*p)
	}
	if id := d.CurrentOrderID(); id != nil {
		s := id.String()
		v.CurrentOrderID = &s
	}
	return v
}

func NewLocationView(p driver.Position) *LocationView {
	return &LocationView{
		Latitude:  p.Coordinates.Latitude(),
		Longitude: p.Coordinates.Longitude(),
		Timestamp: p.RecordedAt,
	}
}

func NewDriverViews(drivers []*driver.Driver) []DriverView {
	out := make([]DriverView, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, NewDriverView(d))
	}
	return out
}
