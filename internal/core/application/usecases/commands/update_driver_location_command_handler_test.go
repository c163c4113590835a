package commands_test

import (
	"testing"

	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateDriverLocationCommand(t *testing.T) {
	location := newCoordinates(t, 49.44, 1.09)

	_, err := commands.NewUpdateDriverLocationCommand("", location, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewUpdateDriverLocationCommand("driver-1", kernel.Coordinates{}, nil)
	require.Error(t, err)

	cmd, err := commands.NewUpdateDriverLocationCommand("driver-1", location, nil)
	require.NoError(t, err)
	assert.Nil(t, cmd.OrderID())
}

func TestUpdateDriverLocationCommandHandler_Handle_ForwardsToCustomers(t *testing.T) {
	ctx := t.Context()
	location := newCoordinates(t, 49.4432, 1.0993)
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewUpdateDriverLocationCommand("driver-1", location, &orderID)
	existing := newDriver(t, "driver-1", true, nil)

	repo := new(MockDriverRepository)
	uow := new(MockDriverUoW)
	notifier := new(MockNotifier)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, "driver-1").Return(existing, nil).Once(),
		repo.On("Update", ctx, existing).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		notifier.On("NotifyRole", ports.RoleCustomer, views.LocationUpdateEvent{
			Type:           views.EventLocationUpdate,
			OrderID:        orderID.String(),
			DriverID:       "driver-1",
			DriverLocation: views.CoordinatesView{Latitude: 49.4432, Longitude: 1.0993},
		}).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateDriverLocationCommandHandler(factory, notifier, discardLogger())
	d, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, d.Position())
	assert.True(t, location.IsEqual(d.Position().Coordinates))
	assert.Equal(t, d.Position().RecordedAt, *d.LastLocationUpdate())
	notifier.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestUpdateDriverLocationCommandHandler_Handle_WithoutOrderDoesNotNotify(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewUpdateDriverLocationCommand("driver-1", newCoordinates(t, 49.44, 1.09), nil)
	existing := newDriver(t, "driver-1", true, nil)

	repo := new(MockDriverRepository)
	uow := new(MockDriverUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DriverRepository").Return(repo).Once()
	repo.On("GetForUpdate", ctx, "driver-1").Return(existing, nil).Once()
	repo.On("Update", ctx, existing).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()
	notifier := new(MockNotifier)

	h := commands.NewUpdateDriverLocationCommandHandler(factory, notifier, discardLogger())
	_, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "NotifyRole", mock.Anything, mock.Anything)
}

func TestUpdateDriverLocationCommandHandler_Handle_UnknownDriver(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, _ := commands.NewUpdateDriverLocationCommand("ghost", newCoordinates(t, 49.44, 1.09), &orderID)

	repo := new(MockDriverRepository)
	uow := new(MockDriverUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, "ghost").Return(nil, errs.NewObjectNotFoundError("driver", "ghost")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()
	notifier := new(MockNotifier)

	h := commands.NewUpdateDriverLocationCommandHandler(factory, notifier, discardLogger())
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyRole", mock.Anything, mock.Anything)
}
