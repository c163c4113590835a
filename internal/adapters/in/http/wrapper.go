package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GetOrdersParams defines parameters for GetOrders.
type GetOrdersParams struct {
	Role   *string `form:"role,omitempty" json:"role,omitempty"`
	UserId *string `form:"userId,omitempty" json:"userId,omitempty"` //nolint:revive // matches the wire name
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List orders, newest first
	// (GET /orders)
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// List prepared orders no courier has claimed
	// (GET /orders/courier/available)
	GetAvailableOrders(ctx echo.Context) error
	// List the orders of a courier
	// (GET /orders/courier/{courierId})
	GetCourierOrders(ctx echo.Context, courierId string) error
	// List the orders of a shop
	// (GET /orders/restaurant/{shopId})
	GetRestaurantOrders(ctx echo.Context, shopId string) error
	// Get an order
	// (GET /orders/{id})
	GetOrder(ctx echo.Context, id openapi_types.UUID) error
	// Move an order along its lifecycle
	// (PATCH /orders/{id}/status)
	UpdateOrderStatus(ctx echo.Context, id openapi_types.UUID) error
	// Toggle driver availability
	// (POST /drivers/availability)
	SetDriverAvailability(ctx echo.Context) error
	// List available drivers, most recent location first
	// (GET /drivers/available)
	GetAvailableDrivers(ctx echo.Context) error
	// Get a driver
	// (GET /drivers/{driverId}/status)
	GetDriverStatus(ctx echo.Context, driverId string) error
	// Report a driver position
	// (PATCH /drivers/{id}/location)
	UpdateDriverLocation(ctx echo.Context, id string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var err error

	var params GetOrdersParams

	err = runtime.BindQueryParameter("form", true, false, "role", ctx.QueryParams(), &params.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter role: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "userId", ctx.QueryParams(), &params.UserId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter userId: %s", err))
	}

	err = w.Handler.GetOrders(ctx, params)
	return err
}

// GetAvailableOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetAvailableOrders(ctx echo.Context) error {
	return w.Handler.GetAvailableOrders(ctx)
}

// GetCourierOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetCourierOrders(ctx echo.Context) error {
	var courierId string

	err := runtime.BindStyledParameterWithOptions("simple", "courierId", ctx.Param("courierId"), &courierId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter courierId: %s", err))
	}

	return w.Handler.GetCourierOrders(ctx, courierId)
}

// GetRestaurantOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetRestaurantOrders(ctx echo.Context) error {
	var shopId string

	err := runtime.BindStyledParameterWithOptions("simple", "shopId", ctx.Param("shopId"), &shopId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter shopId: %s", err))
	}

	return w.Handler.GetRestaurantOrders(ctx, shopId)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}

	return w.Handler.GetOrder(ctx, id)
}

// UpdateOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}

	return w.Handler.UpdateOrderStatus(ctx, id)
}

// SetDriverAvailability converts echo context to params.
func (w *ServerInterfaceWrapper) SetDriverAvailability(ctx echo.Context) error {
	return w.Handler.SetDriverAvailability(ctx)
}

// GetAvailableDrivers converts echo context to params.
func (w *ServerInterfaceWrapper) GetAvailableDrivers(ctx echo.Context) error {
	return w.Handler.GetAvailableDrivers(ctx)
}

// GetDriverStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetDriverStatus(ctx echo.Context) error {
	var driverId string

	err := runtime.BindStyledParameterWithOptions("simple", "driverId", ctx.Param("driverId"), &driverId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter driverId: %s", err))
	}

	return w.Handler.GetDriverStatus(ctx, driverId)
}

// UpdateDriverLocation converts echo context to params.
func (w *ServerInterfaceWrapper) UpdateDriverLocation(ctx echo.Context) error {
	var id string

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}

	return w.Handler.UpdateDriverLocation(ctx, id)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group routes are added to.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	RegisterHandlersWithBaseURL(router, si, "", m...)
}

// RegisterHandlersWithBaseURL registers the routes under baseURL. Static
// segments are registered before parameterized ones sharing a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string, m ...echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/orders", wrapper.GetOrders, m...)
	router.GET(baseURL+"/orders/courier/available", wrapper.GetAvailableOrders, m...)
	router.GET(baseURL+"/orders/courier/:courierId", wrapper.GetCourierOrders, m...)
	router.GET(baseURL+"/orders/restaurant/:shopId", wrapper.GetRestaurantOrders, m...)
	router.GET(baseURL+"/orders/:id", wrapper.GetOrder, m...)
	router.PATCH(baseURL+"/orders/:id/status", wrapper.UpdateOrderStatus, m...)
	router.POST(baseURL+"/drivers/availability", wrapper.SetDriverAvailability, m...)
	router.GET(baseURL+"/drivers/available", wrapper.GetAvailableDrivers, m...)
	router.GET(baseURL+"/drivers/:driverId/status", wrapper.GetDriverStatus, m...)
	router.PATCH(baseURL+"/drivers/:id/location", wrapper.UpdateDriverLocation, m...)
}
