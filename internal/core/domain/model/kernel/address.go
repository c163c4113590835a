package kernel

import (
	"errors"
	"strings"

	"orderapi/internal/pkg/errs"
	"orderapi/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress")

// Address is a postal address. Coordinates are absent until geocoding succeeds.
type Address struct { //nolint:recvcheck //using for validation
	street      string
	city        string
	zipCode     string
	coordinates *Coordinates
	guard       guard.ConstructorGuard
}

// NewAddress requires street, city and zip code to be non-blank.
func NewAddress(street, city, zipCode string) (Address, error) {
	a := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setStreet(street),
		a.setCity(city),
		a.setZipCode(zipCode),
	); err != nil {
		return Address{}, err
	}

	return a, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// WithCoordinates returns a copy of the address resolved to the given point.
func (a Address) WithCoordinates(c Coordinates) (Address, error) {
	if err := errors.Join(a.Validate(), c.Validate()); err != nil {
		return Address{}, err
	}

	a.coordinates = &c
	return a, nil
}

func (a Address) Street() string {
	return a.street
}

func (a Address) City() string {
	return a.city
}

func (a Address) ZipCode() string {
	return a.zipCode
}

// Coordinates returns nil when the address has not been geocoded.
func (a Address) Coordinates() *Coordinates {
	if a.coordinates == nil {
		return nil
	}
	c := *a.coordinates
	return &c
}

// Query renders the free-text form sent to geocoders: "street zip city".
func (a Address) Query() string {
	return strings.Join([]string{a.street, a.zipCode, a.city}, " ")
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setZipCode(zipCode string) error {
	zipCode = strings.TrimSpace(zipCode)
	if zipCode == "" {
		return errs.NewValueIsRequiredError("zipCode")
	}
	a.zipCode = zipCode
	return nil
}
