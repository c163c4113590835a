package services_test

import (
	"testing"
	"time"

	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func preparedOrder(t *testing.T, createdAt time.Time) *order.Order {
	t.Helper()
	pickup, _ := kernel.NewAddress("1 place du Vieux-Marché", "Rouen", "76000")
	delivery, _ := kernel.NewAddress("12 rue Jeanne d'Arc", "Rouen", "76000")
	o, err := order.NewOrder(kernel.NewUUID(), order.Draft{
		MenuID:          "menu-1",
		ShopID:          "shop-1",
		CustomerID:      "customer-1",
		PickupAddress:   pickup,
		DeliveryAddress: delivery,
		CreatedAt:       createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, o.Transition(order.Confirmed, "", "", createdAt))
	require.NoError(t, o.Transition(order.Prepared, "", "", createdAt))
	return o
}

func availableDriver(t *testing.T, id string, lastReport *time.Time) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(id, base)
	require.NoError(t, err)
	if lastReport != nil {
		c := coords(t, 49.44, 1.09)
		require.NoError(t, d.SetAvailability(true, &c, *lastReport))
	} else {
		require.NoError(t, d.SetAvailability(true, nil, base))
	}
	return d
}

func at(minutes int) *time.Time {
	t := base.Add(time.Duration(minutes) * time.Minute)
	return &t
}

func TestCourierMatcher_PickOrder(t *testing.T) {
	matcher := services.NewCourierMatcher()
	d := availableDriver(t, "drv-1", nil)

	t.Run("oldest unclaimed prepared order wins", func(t *testing.T) {
		newer := preparedOrder(t, base.Add(2*time.Minute))
		oldest := preparedOrder(t, base)
		middle := preparedOrder(t, base.Add(time.Minute))

		picked, err := matcher.PickOrder(d, []*order.Order{newer, oldest, middle})

		require.NoError(t, err)
		assert.True(t, picked.IsEqual(oldest))
	})

	t.Run("claimed orders are skipped", func(t *testing.T) {
		claimed := preparedOrder(t, base)
		require.NoError(t, claimed.Transition(order.PickedUp, "drv-2", "", base))
		free := preparedOrder(t, base.Add(time.Hour))

		picked, err := matcher.PickOrder(d, []*order.Order{claimed, free})

		require.NoError(t, err)
		assert.True(t, picked.IsEqual(free))
	})

	t.Run("nothing to offer", func(t *testing.T) {
		picked, err := matcher.PickOrder(d, nil)

		require.ErrorIs(t, err, services.ErrNoCandidate)
		assert.Nil(t, picked)
	})

	t.Run("busy driver gets nothing", func(t *testing.T) {
		busy := availableDriver(t, "drv-busy", nil)
		require.NoError(t, busy.AssignOrder(kernel.NewUUID(), base))

		picked, err := matcher.PickOrder(busy, []*order.Order{preparedOrder(t, base)})

		require.ErrorIs(t, err, services.ErrNoCandidate)
		assert.Nil(t, picked)
	})
}

func TestCourierMatcher_PickDriver(t *testing.T) {
	matcher := services.NewCourierMatcher()
	o := preparedOrder(t, base)

	t.Run("most recent location report wins", func(t *testing.T) {
		stale := availableDriver(t, "stale", at(1))
		fresh := availableDriver(t, "fresh", at(5))
		silent := availableDriver(t, "silent", nil)

		picked, err := matcher.PickDriver(o, []*driver.Driver{silent, stale, fresh})

		require.NoError(t, err)
		assert.Equal(t, "fresh", picked.ID())
	})

	t.Run("drivers that never reported are still candidates", func(t *testing.T) {
		silent := availableDriver(t, "silent", nil)

		picked, err := matcher.PickDriver(o, []*driver.Driver{silent})

		require.NoError(t, err)
		assert.Equal(t, "silent", picked.ID())
	})

	t.Run("busy and unavailable drivers are skipped", func(t *testing.T) {
		busy := availableDriver(t, "busy", at(9))
		require.NoError(t, busy.AssignOrder(kernel.NewUUID(), base))
		off, _ := driver.NewDriver("off", base)

		picked, err := matcher.PickDriver(o, []*driver.Driver{busy, off})

		require.ErrorIs(t, err, services.ErrNoCandidate)
		assert.Nil(t, picked)
	})

	t.Run("tie keeps input order", func(t *testing.T) {
		first := availableDriver(t, "first", at(3))
		second := availableDriver(t, "second", at(3))

		picked, err := matcher.PickDriver(o, []*driver.Driver{first, second})

		require.NoError(t, err)
		assert.Equal(t, "first", picked.ID())
	})
}
