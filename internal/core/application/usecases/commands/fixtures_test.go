package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

const testDeliveryCode = "4821"

var baseTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAddress(t *testing.T, street string, coordinates *kernel.Coordinates) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(street, "Rouen", "76000")
	require.NoError(t, err)
	if coordinates != nil {
		a, err = a.WithCoordinates(*coordinates)
		require.NoError(t, err)
	}
	return a
}

func newCoordinates(t *testing.T, lat, lon float64) kernel.Coordinates {
	t.Helper()
	c, err := kernel.NewCoordinates(lat, lon)
	require.NoError(t, err)
	return c
}

func newOrderIn(t *testing.T, status order.Status, courierID *string, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		MenuID:          "menu-1",
		ShopID:          "shop-1",
		CustomerID:      "customer-1",
		CourierID:       courierID,
		PickupAddress:   newAddress(t, "1 Rue du Gros Horloge", nil),
		DeliveryAddress: newAddress(t, "10 Place du Vieux Marche", nil),
		Status:          status,
		DeliveryCode:    testDeliveryCode,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	})
	require.NoError(t, err)
	return o
}

func newDriver(t *testing.T, id string, available bool, lastReport *time.Time) *driver.Driver {
	t.Helper()
	state := driver.State{
		ID:          id,
		IsAvailable: available,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
	if lastReport != nil {
		state.Position = &driver.Position{
			Coordinates: newCoordinates(t, 49.44, 1.09),
			RecordedAt:  *lastReport,
		}
		state.LastLocationUpdate = lastReport
	}
	d, err := driver.RestoreDriver(state)
	require.NoError(t, err)
	return d
}

func ptr[T any](v T) *T {
	return &v
}
