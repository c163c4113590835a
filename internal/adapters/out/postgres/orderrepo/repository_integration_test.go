package orderrepo_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "orderapi/internal/adapters/out/postgres"
	"orderapi/internal/adapters/out/postgres/orderrepo"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"
	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the order repository against a
// real PostgreSQL with the production migrations applied.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	baseTime   time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(ctx, connStr, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.Require().NoError(err)
	suite.db = db

	suite.baseTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTripsEveryField() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(testOrder.ID().IsEqual(retrieved.ID()))
	suite.Equal("menu-1", retrieved.MenuID())
	suite.Equal("shop-1", retrieved.ShopID())
	suite.Equal("customer-1", retrieved.CustomerID())
	suite.Nil(retrieved.CourierID())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Equal(testOrder.DeliveryCode(), retrieved.DeliveryCode())
	suite.Require().Len(retrieved.Items(), 2)
	suite.JSONEq(`{"name":"margherita","quantity":2}`, string(retrieved.Items()[0]))
	suite.Equal("1 Rue du Gros Horloge", retrieved.PickupAddress().Street())
	suite.Require().NotNil(retrieved.PickupAddress().Coordinates())
	suite.InDelta(49.4432, retrieved.PickupAddress().Coordinates().Latitude(), 1e-9)
	suite.Require().NotNil(retrieved.Estimate())
	suite.Equal(*testOrder.Estimate(), *retrieved.Estimate())
	suite.True(suite.baseTime.Equal(retrieved.CreatedAt()))
	suite.True(suite.baseTime.Equal(retrieved.UpdatedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_WithoutCoordinates_KeepsNulls() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, false)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Nil(retrieved.PickupAddress().Coordinates())
	suite.Nil(retrieved.DeliveryAddress().Coordinates())
	suite.Nil(retrieved.Estimate())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_Duplicate_ReturnsAlreadyExists() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	err := suite.repository.Add(ctx, testOrder)

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NotConstructed_ReturnsError() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertOrderCount(0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransitions() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	steps := []struct {
		target  order.Status
		courier string
		code    string
	}{
		{order.Confirmed, "", ""},
		{order.Prepared, "", ""},
		{order.PickedUp, "driver-1", ""},
		{order.Delivered, "", testOrder.DeliveryCode()},
	}

	at := suite.baseTime
	for _, step := range steps {
		at = at.Add(time.Minute)
		suite.Require().NoError(testOrder.Transition(step.target, step.courier, step.code, at))
		suite.Require().NoError(suite.repository.Update(ctx, testOrder))
	}

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, retrieved.Status())
	suite.Require().NotNil(retrieved.CourierID())
	suite.Equal("driver-1", *retrieved.CourierID())
	suite.Require().NotNil(retrieved.AssignedAt())
	suite.True(suite.baseTime.Add(3 * time.Minute).Equal(*retrieved.AssignedAt()))
	suite.Require().NotNil(retrieved.DeliveredAt())
	suite.True(at.Equal(*retrieved.DeliveredAt()))
	suite.True(at.Equal(retrieved.UpdatedAt()))
	suite.True(suite.baseTime.Equal(retrieved.CreatedAt()))
	suite.Equal(testOrder.DeliveryCode(), retrieved.DeliveryCode())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	testOrder := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)

	err := suite.repository.Update(context.Background(), testOrder)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_FiltersAndSortsNewestFirst() {
	ctx := context.Background()
	oldest := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)
	middle := suite.createTestOrder("shop-2", "customer-1", suite.baseTime.Add(time.Minute), true)
	newest := suite.createTestOrder("shop-1", "customer-2", suite.baseTime.Add(2*time.Minute), true)
	for _, o := range []*order.Order{middle, oldest, newest} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	all, err := suite.repository.List(ctx, ports.OrderFilter{})
	suite.Require().NoError(err)
	suite.Equal([]string{newest.ID().String(), middle.ID().String(), oldest.ID().String()}, ids(all))

	shop1, err := suite.repository.List(ctx, ports.OrderFilter{ShopID: "shop-1"})
	suite.Require().NoError(err)
	suite.Equal([]string{newest.ID().String(), oldest.ID().String()}, ids(shop1))

	customer1, err := suite.repository.List(ctx, ports.OrderFilter{CustomerID: "customer-1"})
	suite.Require().NoError(err)
	suite.Equal([]string{middle.ID().String(), oldest.ID().String()}, ids(customer1))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_UnclaimedPrepared() {
	ctx := context.Background()
	claimed := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)
	unclaimed := suite.createTestOrder("shop-1", "customer-1", suite.baseTime.Add(time.Minute), true)
	pending := suite.createTestOrder("shop-1", "customer-1", suite.baseTime.Add(2*time.Minute), true)

	for _, o := range []*order.Order{claimed, unclaimed} {
		suite.Require().NoError(o.Transition(order.Confirmed, "", "", suite.baseTime))
		suite.Require().NoError(o.Transition(order.Prepared, "", "", suite.baseTime))
	}
	suite.Require().NoError(claimed.Transition(order.PickedUp, "driver-1", "", suite.baseTime))
	for _, o := range []*order.Order{claimed, unclaimed, pending} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	result, err := suite.repository.List(ctx, ports.OrderFilter{Status: order.Prepared, UnclaimedOnly: true})
	suite.Require().NoError(err)
	suite.Equal([]string{unclaimed.ID().String()}, ids(result))

	byCourier, err := suite.repository.List(ctx, ports.OrderFilter{CourierID: "driver-1"})
	suite.Require().NoError(err)
	suite.Equal([]string{claimed.ID().String()}, ids(byCourier))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_InsideTransaction() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("shop-1", "customer-1", suite.baseTime, true)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		locked, err := orderrepo.NewGormOrderRepository(tx).GetForUpdate(ctx, testOrder.ID())
		if err != nil {
			return err
		}
		if err = locked.Transition(order.Confirmed, "", "", suite.baseTime.Add(time.Minute)); err != nil {
			return err
		}
		return orderrepo.NewGormOrderRepository(tx).Update(ctx, locked)
	})
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrieved.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(
	shopID, customerID string,
	createdAt time.Time,
	located bool,
) *order.Order {
	pickup, err := kernel.NewAddress("1 Rue du Gros Horloge", "Rouen", "76000")
	suite.Require().NoError(err)
	delivery, err := kernel.NewAddress("10 Place du Vieux Marche", "Rouen", "76000")
	suite.Require().NoError(err)

	var estimate *order.Estimate
	if located {
		from, err := kernel.NewCoordinates(49.4432, 1.0993)
		suite.Require().NoError(err)
		to, err := kernel.NewCoordinates(49.45, 1.1)
		suite.Require().NoError(err)
		pickup, err = pickup.WithCoordinates(from)
		suite.Require().NoError(err)
		delivery, err = delivery.WithCoordinates(to)
		suite.Require().NoError(err)
		estimate = &order.Estimate{DistanceKm: 0.76, Minutes: 8}
	}

	o, err := order.NewOrder(kernel.NewUUID(), order.Draft{
		MenuID:     "menu-1",
		ShopID:     shopID,
		CustomerID: customerID,
		Items: []json.RawMessage{
			json.RawMessage(`{"name":"margherita","quantity":2}`),
			json.RawMessage(`{"name":"tiramisu","quantity":1}`),
		},
		PickupAddress:   pickup,
		DeliveryAddress: delivery,
		Estimate:        estimate,
		CreatedAt:       createdAt,
	})
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func ids(orders []*order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID().String())
	}
	return out
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
