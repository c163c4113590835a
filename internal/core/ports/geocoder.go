package ports

import (
	"context"

	"orderapi/internal/core/domain/model/kernel"
)

// Geocoder resolves a postal address to coordinates.
// Failures are wrapped in errs.ErrUpstreamUnavailable and are never fatal to callers.
type Geocoder interface {
	Geocode(ctx context.Context, address kernel.Address) (kernel.Coordinates, error)
}
