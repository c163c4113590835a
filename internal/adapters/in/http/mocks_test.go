package http_test

import (
	"context"

	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/core/application/usecases/queries"
	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockOrderStatusUpdater struct{ mock.Mock }

func (m *MockOrderStatusUpdater) Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockDriverAvailabilitySetter struct{ mock.Mock }

func (m *MockDriverAvailabilitySetter) Handle(ctx context.Context, cmd commands.SetDriverAvailabilityCommand) (*driver.Driver, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

type MockDriverLocationUpdater struct{ mock.Mock }

func (m *MockDriverLocationUpdater) Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) (*driver.Driver, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

type MockOrdersLister struct{ mock.Mock }

func (m *MockOrdersLister) Handle(ctx context.Context, query queries.GetOrdersQuery) ([]views.OrderView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]views.OrderView), args.Error(1)
}

type MockOrderGetter struct{ mock.Mock }

func (m *MockOrderGetter) Handle(ctx context.Context, query queries.GetOrderQuery) (views.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(views.OrderView), args.Error(1)
}

type MockAvailableOrdersLister struct{ mock.Mock }

func (m *MockAvailableOrdersLister) Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]views.OrderView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]views.OrderView), args.Error(1)
}

type MockDriverGetter struct{ mock.Mock }

func (m *MockDriverGetter) Handle(ctx context.Context, query queries.GetDriverQuery) (views.DriverView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(views.DriverView), args.Error(1)
}

type MockAvailableDriversLister struct{ mock.Mock }

func (m *MockAvailableDriversLister) Handle(ctx context.Context, query queries.GetAvailableDriversQuery) ([]views.DriverView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]views.DriverView), args.Error(1)
}

type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
