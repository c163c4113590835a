// Package orderrepo maps order aggregates to the orders table.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row form of an order. Timestamps are owned by the domain,
// so gorm's automatic time tracking is disabled.
type OrderDTO struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primaryKey"`
	MenuID                string            `gorm:"not null"`
	ShopID                string            `gorm:"not null;index"`
	CustomerID            string            `gorm:"not null;index"`
	CourierID             *string           `gorm:"index"`
	Items                 []json.RawMessage `gorm:"serializer:json;type:jsonb;not null"`
	Status                string            `gorm:"type:varchar(16);not null;index"`
	PickupAddress         AddressDTO        `gorm:"embedded;embeddedPrefix:pickup_"`
	DeliveryAddress       AddressDTO        `gorm:"embedded;embeddedPrefix:delivery_"`
	Distance              *float64
	EstimatedDeliveryTime *int
	DeliveryCode          string `gorm:"type:varchar(4);not null"`
	AssignedAt            *time.Time
	DeliveredAt           *time.Time
	CreatedAt             time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt             time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is embedded twice, once per address. Latitude and longitude are
// both set or both NULL.
type AddressDTO struct {
	Street    string `gorm:"not null"`
	City      string `gorm:"not null"`
	ZipCode   string `gorm:"not null"`
	Latitude  *float64
	Longitude *float64
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID().Bytes(),
		MenuID:          o.MenuID(),
		ShopID:          o.ShopID(),
		CustomerID:      o.CustomerID(),
		CourierID:       o.CourierID(),
		Items:           o.Items(),
		Status:          o.Status().String(),
		PickupAddress:   addressFromDomain(o.PickupAddress()),
		DeliveryAddress: addressFromDomain(o.DeliveryAddress()),
		DeliveryCode:    o.DeliveryCode(),
		AssignedAt:      o.AssignedAt(),
		DeliveredAt:     o.DeliveredAt(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}

	if e := o.Estimate(); e != nil {
		distance, minutes := e.DistanceKm, e.Minutes
		dto.Distance = &distance
		dto.EstimatedDeliveryTime = &minutes
	}

	return dto
}

func addressFromDomain(a kernel.Address) AddressDTO {
	dto := AddressDTO{
		Street:  a.Street(),
		City:    a.City(),
		ZipCode: a.ZipCode(),
	}
	if c := a.Coordinates(); c != nil {
		lat, lon := c.Latitude(), c.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := addressToDomain(dto.PickupAddress)
	if err != nil {
		return nil, err
	}

	delivery, err := addressToDomain(dto.DeliveryAddress)
	if err != nil {
		return nil, err
	}

	var estimate *order.Estimate
	if dto.Distance != nil && dto.EstimatedDeliveryTime != nil {
		estimate = &order.Estimate{
			DistanceKm: *dto.Distance,
			Minutes:    *dto.EstimatedDeliveryTime,
		}
	}

	return order.RestoreOrder(order.State{
		ID:              id,
		MenuID:          dto.MenuID,
		ShopID:          dto.ShopID,
		CustomerID:      dto.CustomerID,
		CourierID:       dto.CourierID,
		Items:           dto.Items,
		PickupAddress:   pickup,
		DeliveryAddress: delivery,
		Estimate:        estimate,
		Status:          order.Status(dto.Status),
		DeliveryCode:    dto.DeliveryCode,
		AssignedAt:      dto.AssignedAt,
		DeliveredAt:     dto.DeliveredAt,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	})
}

func addressToDomain(dto AddressDTO) (kernel.Address, error) {
	address, err := kernel.NewAddress(dto.Street, dto.City, dto.ZipCode)
	if err != nil {
		return kernel.Address{}, err
	}
	if dto.Latitude == nil || dto.Longitude == nil {
		return address, nil
	}

	coordinates, err := kernel.NewCoordinates(*dto.Latitude, *dto.Longitude)
	if err != nil {
		return kernel.Address{}, err
	}
	return address.WithCoordinates(coordinates)
}
