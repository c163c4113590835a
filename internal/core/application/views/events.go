package views

// Real-time event types pushed to subscribers as the "type" field.
const (
	EventConnected      = "connected"
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderAvailable = "order.available"
	EventOrderPrepared  = "order.prepared"
	EventLocationUpdate = "delivery.location.update"
)

const WelcomeMessage = "Welcome to Order API WebSocket"

type ConnectedEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// OrderEvent carries an order snapshot. TargetDriverID is only set on
// order.available offers.
type OrderEvent struct {
	Type           string    `json:"type"`
	Order          OrderView `json:"order"`
	TargetDriverID string    `json:"targetDriverId,omitempty"`
}

type LocationUpdateEvent struct {
	Type           string          `json:"type"`
	OrderID        string          `json:"orderId"`
	DriverID       string          `json:"driverId"`
	DriverLocation CoordinatesView `json:"driverLocation"`
}

func NewConnectedEvent() ConnectedEvent {
	return ConnectedEvent{Type: EventConnected, Message: WelcomeMessage}
}
