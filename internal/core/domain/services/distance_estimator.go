package services

import (
	"errors"
	"math"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
	// DefaultCourierSpeedKmh is the average urban courier speed.
	DefaultCourierSpeedKmh = 20.0
	// DefaultHandlingMinutes covers pickup and hand-over.
	DefaultHandlingMinutes = 5
)

// DistanceEstimator maps two points to a road-agnostic distance and an ETA.
type DistanceEstimator struct {
	speedKmh        float64
	handlingMinutes int
}

func NewDistanceEstimator() DistanceEstimator {
	return DistanceEstimator{
		speedKmh:        DefaultCourierSpeedKmh,
		handlingMinutes: DefaultHandlingMinutes,
	}
}

// Estimate returns the haversine distance rounded to 2 decimals and the ETA in
// whole minutes (travel time rounded up plus handling).
func (e DistanceEstimator) Estimate(from, to kernel.Coordinates) (order.Estimate, error) {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return order.Estimate{}, err
	}

	km := math.Round(HaversineKm(from, to)*100) / 100
	travel := int(math.Ceil(km / e.speedKmh * 60))

	return order.Estimate{
		DistanceKm: km,
		Minutes:    travel + e.handlingMinutes,
	}, nil
}

// HaversineKm is the great-circle distance between two points in kilometers.
func HaversineKm(from, to kernel.Coordinates) float64 {
	const degToRad = math.Pi / 180
	lat1 := from.Latitude() * degToRad
	lat2 := to.Latitude() * degToRad
	dLat := (to.Latitude() - from.Latitude()) * degToRad
	dLng := (to.Longitude() - from.Longitude()) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}
