package http

import (
	"context"
	"log/slog"
	"net/http"

	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/core/application/usecases/queries"
	"orderapi/internal/core/application/views"
	"orderapi/internal/core/domain/model/driver"
	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Use case ports, satisfied by the command and query handlers.
type (
	OrderStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	DriverAvailabilitySetter interface {
		Handle(ctx context.Context, cmd commands.SetDriverAvailabilityCommand) (*driver.Driver, error)
	}
	DriverLocationUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) (*driver.Driver, error)
	}
	OrdersLister interface {
		Handle(ctx context.Context, query queries.GetOrdersQuery) ([]views.OrderView, error)
	}
	OrderGetter interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (views.OrderView, error)
	}
	AvailableOrdersLister interface {
		Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]views.OrderView, error)
	}
	DriverGetter interface {
		Handle(ctx context.Context, query queries.GetDriverQuery) (views.DriverView, error)
	}
	AvailableDriversLister interface {
		Handle(ctx context.Context, query queries.GetAvailableDriversQuery) ([]views.DriverView, error)
	}
)

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	UpdateOrderStatus     OrderStatusUpdater
	SetDriverAvailability DriverAvailabilitySetter
	UpdateDriverLocation  DriverLocationUpdater
	GetOrders             OrdersLister
	GetOrder              OrderGetter
	GetAvailableOrders    AvailableOrdersLister
	GetDriver             DriverGetter
	GetAvailableDrivers   AvailableDriversLister
}

var _ ServerInterface = (*Server)(nil)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
	}
}

type UpdateOrderStatusRequest struct {
	Status       string `json:"status"`
	CourierID    string `json:"courierId,omitempty"`
	DeliveryCode string `json:"deliveryCode,omitempty"`
}

type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SetDriverAvailabilityRequest struct {
	DriverID    string              `json:"driverId"`
	IsAvailable bool                `json:"isAvailable"`
	Location    *CoordinatesRequest `json:"location,omitempty"`
}

type UpdateDriverLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	OrderID   *string `json:"orderId,omitempty"`
}

type OrderUpdatedResponse struct {
	Message string          `json:"message"`
	Order   views.OrderView `json:"order"`
}

type DriverResponse struct {
	Message string           `json:"message"`
	Driver  views.DriverView `json:"driver"`
}

type LocationResponse struct {
	Message  string              `json:"message"`
	Location *views.LocationView `json:"location"`
}

var (
	orderFailures = failureMessages{
		notFound: "Order not found",
		internal: "Error fetching orders",
	}
	driverFailures = failureMessages{
		notFound: "Driver not found",
		internal: "Error fetching driver status",
	}
)

// GetOrders handles GET /orders.
func (s *Server) GetOrders(ctx echo.Context, params GetOrdersParams) error {
	query := queries.NewGetOrdersQuery(deref(params.Role), deref(params.UserId))

	orders, err := s.handlers.GetOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, orderFailures)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(ctx echo.Context, id openapi_types.UUID) error {
	orderID, err := kernel.UUIDFromString(id.String())
	if err != nil {
		return s.fail(ctx, err, orderFailures)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err, orderFailures)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, failureMessages{notFound: "Order not found", internal: "Error fetching order"})
	}

	return ctx.JSON(http.StatusOK, view)
}

// UpdateOrderStatus handles PATCH /orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id openapi_types.UUID) error {
	failures := failureMessages{notFound: "Order not found", internal: "Error updating order status"}

	var body UpdateOrderStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromString(id.String())
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, body.Status, body.CourierID, body.DeliveryCode)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	updated, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	return ctx.JSON(http.StatusOK, OrderUpdatedResponse{
		Message: "Order updated successfully",
		Order:   views.NewOrderView(updated),
	})
}

// GetRestaurantOrders handles GET /orders/restaurant/:shopId.
func (s *Server) GetRestaurantOrders(ctx echo.Context, shopID string) error {
	return s.listOrders(ctx, queries.NewGetOrdersQuery("shop", shopID), "Error fetching restaurant orders")
}

// GetCourierOrders handles GET /orders/courier/:courierId.
func (s *Server) GetCourierOrders(ctx echo.Context, courierID string) error {
	return s.listOrders(ctx, queries.NewGetOrdersQuery("courier", courierID), "Error fetching courier orders")
}

// GetAvailableOrders handles GET /orders/courier/available.
func (s *Server) GetAvailableOrders(ctx echo.Context) error {
	orders, err := s.handlers.GetAvailableOrders.Handle(ctx.Request().Context(), queries.NewGetAvailableOrdersQuery())
	if err != nil {
		return s.fail(ctx, err, failureMessages{internal: "Error fetching available orders"})
	}

	return ctx.JSON(http.StatusOK, orders)
}

// SetDriverAvailability handles POST /drivers/availability.
func (s *Server) SetDriverAvailability(ctx echo.Context) error {
	failures := failureMessages{notFound: "Driver not found", internal: "Error updating driver availability"}

	var body SetDriverAvailabilityRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	var location *kernel.Coordinates
	if body.Location != nil {
		c, err := kernel.NewCoordinates(body.Location.Latitude, body.Location.Longitude)
		if err != nil {
			return s.fail(ctx, err, failures)
		}
		location = &c
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(body.DriverID, body.IsAvailable, location)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	updated, err := s.handlers.SetDriverAvailability.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	message := "Driver unavailable"
	if updated.IsAvailable() {
		message = "Driver available"
	}

	return ctx.JSON(http.StatusOK, DriverResponse{
		Message: message,
		Driver:  views.NewDriverView(updated),
	})
}

// GetDriverStatus handles GET /drivers/:driverId/status.
func (s *Server) GetDriverStatus(ctx echo.Context, driverID string) error {
	query, err := queries.NewGetDriverQuery(driverID)
	if err != nil {
		return s.fail(ctx, err, driverFailures)
	}

	view, err := s.handlers.GetDriver.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, driverFailures)
	}

	return ctx.JSON(http.StatusOK, view)
}

// GetAvailableDrivers handles GET /drivers/available.
func (s *Server) GetAvailableDrivers(ctx echo.Context) error {
	drivers, err := s.handlers.GetAvailableDrivers.Handle(ctx.Request().Context(), queries.NewGetAvailableDriversQuery())
	if err != nil {
		return s.fail(ctx, err, failureMessages{internal: "Error fetching available drivers"})
	}

	return ctx.JSON(http.StatusOK, drivers)
}

// UpdateDriverLocation handles PATCH /drivers/:id/location.
func (s *Server) UpdateDriverLocation(ctx echo.Context, driverID string) error {
	failures := failureMessages{notFound: "Driver not found", internal: "Error updating location"}

	var body UpdateDriverLocationRequest
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, "Invalid request body")
	}

	coordinates, err := kernel.NewCoordinates(body.Latitude, body.Longitude)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	var orderID *kernel.UUID
	if body.OrderID != nil && *body.OrderID != "" {
		id, err := kernel.UUIDFromString(*body.OrderID)
		if err != nil {
			return s.fail(ctx, err, failures)
		}
		orderID = &id
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, coordinates, orderID)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	updated, err := s.handlers.UpdateDriverLocation.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, failures)
	}

	var location *views.LocationView
	if p := updated.Position(); p != nil {
		location = views.NewLocationView(*p)
	}

	return ctx.JSON(http.StatusOK, LocationResponse{
		Message:  "Location updated successfully",
		Location: location,
	})
}

func (s *Server) listOrders(ctx echo.Context, query queries.GetOrdersQuery, internal string) error {
	orders, err := s.handlers.GetOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, failureMessages{internal: internal})
	}

	return ctx.JSON(http.StatusOK, orders)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
