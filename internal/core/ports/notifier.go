package ports

// Role is the subscriber category a real-time channel is tagged with at
// connection time.
type Role string

const (
	RoleShop     Role = "shop"
	RoleCourier  Role = "courier"
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
)

// ParseRole maps unknown or empty values to RoleGuest.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleShop, RoleCourier, RoleCustomer:
		return r
	default:
		return RoleGuest
	}
}

// Notifier delivers fire-and-forget real-time events. Implementations must
// not block on slow or closed subscribers and never report delivery errors:
// the record store stays the source of truth.
type Notifier interface {
	// NotifyRole delivers payload to every open channel of role.
	NotifyRole(role Role, payload any)

	// NotifyUser delivers payload to the channels of role registered for
	// userID, plus the anonymous channels of that role.
	NotifyUser(role Role, userID string, payload any)

	// Broadcast delivers payload to every channel of every role.
	Broadcast(payload any)
}
