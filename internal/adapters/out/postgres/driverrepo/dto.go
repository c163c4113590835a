// Package driverrepo maps driver aggregates to the drivers table.
package driverrepo

import (
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DriverDTO struct {
	DriverID           string      `gorm:"primaryKey"`
	IsAvailable        bool        `gorm:"not null;default:false"`
	Location           LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	LastLocationUpdate *time.Time
	CurrentOrderID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt          time.Time  `gorm:"not null;autoUpdateTime:false"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// LocationDTO is the last reported position; all columns are NULL until the
// first report.
type LocationDTO struct {
	Latitude   *float64
	Longitude  *float64
	RecordedAt *time.Time
}

func fromDomain(d *driver.Driver) DriverDTO {
	dto := DriverDTO{
		DriverID:           d.ID(),
		IsAvailable:        d.IsAvailable(),
		LastLocationUpdate: d.LastLocationUpdate(),
		CreatedAt:          d.CreatedAt(),
		UpdatedAt:          d.UpdatedAt(),
	}

	if p := d.Position(); p != nil {
		lat, lon, at := p.Coordinates.Latitude(), p.Coordinates.Longitude(), p.RecordedAt
		dto.Location = LocationDTO{Latitude: &lat, Longitude: &lon, RecordedAt: &at}
	}

	if id := d.CurrentOrderID(); id != nil {
		raw := id.Bytes()
		dto.CurrentOrderID = &raw
	}

	return dto
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	state := driver.State{
		ID:                 dto.DriverID,
		IsAvailable:        dto.IsAvailable,
		LastLocationUpdate: dto.LastLocationUpdate,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	}

	if loc := dto.Location; loc.Latitude != nil && loc.Longitude != nil && loc.RecordedAt != nil {
		coordinates, err := kernel.NewCoordinates(*loc.Latitude, *loc.Longitude)
		if err != nil {
			return nil, err
		}
		state.Position = &driver.Position{Coordinates: coordinates, RecordedAt: *loc.RecordedAt}
	}

	if dto.CurrentOrderID != nil {
		orderID, err := kernel.UUIDFromBytes((*dto.CurrentOrderID)[:])
		if err != nil {
			return nil, err
		}
		state.CurrentOrderID = &orderID
	}

	return driver.RestoreDriver(state)
}
