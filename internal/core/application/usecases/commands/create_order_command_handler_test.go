package commands_test

import (
	"encoding/json"
	"errors"
	"testing"

	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(t *testing.T, pickup, delivery kernel.Address) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand("menu-1", "shop-1", "customer-1",
		[]json.RawMessage{json.RawMessage(`{"name":"pizza"}`)}, pickup, delivery, baseTime)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	pickup := newAddress(t, "1 Rue du Gros Horloge", nil)
	delivery := newAddress(t, "10 Place du Vieux Marche", nil)
	cmd := newCreateOrderCommand(t, pickup, delivery)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, pickup).Return(newCoordinates(t, 49.4432, 1.0993), nil).Once()
	geocoder.On("Geocode", ctx, delivery).Return(newCoordinates(t, 49.45, 1.1), nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, geocoder, discardLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.Regexp(t, `^[1-9][0-9]{3}$`, created.DeliveryCode())
	require.NotNil(t, created.PickupAddress().Coordinates())
	require.NotNil(t, created.DeliveryAddress().Coordinates())
	require.NotNil(t, created.Estimate())
	assert.InDelta(t, 0.76, created.Estimate().DistanceKm, 0.001)
	assert.Equal(t, 8, created.Estimate().Minutes)
	assert.Equal(t, baseTime, created.CreatedAt())

	geocoder.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_SkipsGeocodingWhenLocated(t *testing.T) {
	ctx := t.Context()
	pickup := newAddress(t, "1 Rue du Gros Horloge", ptr(newCoordinates(t, 49.4432, 1.0993)))
	delivery := newAddress(t, "10 Place du Vieux Marche", ptr(newCoordinates(t, 49.45, 1.1)))
	cmd := newCreateOrderCommand(t, pickup, delivery)

	geocoder := new(MockGeocoder)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, geocoder, discardLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, created.Estimate())
	geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_GeocodingFailureIsNotFatal(t *testing.T) {
	ctx := t.Context()
	pickup := newAddress(t, "1 Rue du Gros Horloge", nil)
	delivery := newAddress(t, "10 Place du Vieux Marche", nil)
	cmd := newCreateOrderCommand(t, pickup, delivery)

	geocoder := new(MockGeocoder)
	geocoder.On("Geocode", ctx, pickup).Return(newCoordinates(t, 49.4432, 1.0993), nil).Once()
	geocoder.On("Geocode", ctx, delivery).
		Return(kernel.Coordinates{}, errs.NewUpstreamUnavailableError("geocoder")).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, geocoder, discardLogger())
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.NotNil(t, created.PickupAddress().Coordinates())
	assert.Nil(t, created.DeliveryAddress().Coordinates())
	assert.Nil(t, created.Estimate())
	assert.Equal(t, order.Pending, created.Status())
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockGeocoder), discardLogger())
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_MissingReferences(t *testing.T) {
	ctx := t.Context()
	located := ptr(newCoordinates(t, 49.45, 1.1))
	cmd, err := commands.NewCreateOrderCommand("", "", "customer-1", nil,
		newAddress(t, "1 Rue du Gros Horloge", located), newAddress(t, "2 Rue Jeanne d'Arc", located), baseTime)
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockGeocoder), discardLogger())
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	located := ptr(newCoordinates(t, 49.45, 1.1))
	cmd := newCreateOrderCommand(t, newAddress(t, "1 Rue du Gros Horloge", located), newAddress(t, "2 Rue Jeanne d'Arc", located))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, new(MockGeocoder), discardLogger())
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	located := ptr(newCoordinates(t, 49.45, 1.1))
	cmd := newCreateOrderCommand(t, newAddress(t, "1 Rue du Gros Horloge", located), newAddress(t, "2 Rue Jeanne d'Arc", located))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, new(MockGeocoder), discardLogger())
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
