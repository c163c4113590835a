// Package kernel provides the value objects shared by the order and driver
// aggregates.
//
// The package includes:
//   - UUID: identifier of orders, wrapping github.com/google/uuid
//   - Coordinates: a WGS84 latitude/longitude pair
//   - Address: a postal address with optional resolved Coordinates
//
// All values are immutable and must be built through their constructors;
// a zero value fails Validate.
package kernel
