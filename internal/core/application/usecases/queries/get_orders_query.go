package queries

import (
	"errors"
	"strings"

	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists orders, newest first. With a user id, shop, customer
// and courier roles only see their own orders; otherwise every order is listed.
//
// Example:
//
//	query := NewGetOrdersQuery("shop", "shop-42")
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	role   ports.Role
	userID string

	guard guard.ConstructorGuard
}

func NewGetOrdersQuery(role string, userID string) GetOrdersQuery {
	return GetOrdersQuery{
		role:   ports.ParseRole(role),
		userID: strings.TrimSpace(userID),
		guard:  guard.NewConstructorGuard(),
	}
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) Role() ports.Role {
	return q.role
}

func (q GetOrdersQuery) UserID() string {
	return q.userID
}

// Filter maps the role to the order field holding that user's id.
func (q GetOrdersQuery) Filter() ports.OrderFilter {
	var filter ports.OrderFilter
	if q.userID == "" {
		return filter
	}

	switch q.role {
	case ports.RoleShop:
		filter.ShopID = q.userID
	case ports.RoleCustomer:
		filter.CustomerID = q.userID
	case ports.RoleCourier:
		filter.CourierID = q.userID
	case ports.RoleGuest:
	}
	return filter
}
