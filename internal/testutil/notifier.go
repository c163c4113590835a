package testutil

import (
	"context"
	"sync"

	"orderapi/internal/core/domain/model/kernel"
	"orderapi/internal/core/ports"
	"orderapi/internal/pkg/errs"
)

// Notification is one call made on a RecordingNotifier. UserID is empty for
// role-wide and broadcast deliveries; Role is empty for broadcasts.
type Notification struct {
	Role    ports.Role
	UserID  string
	Payload any
}

var _ ports.Notifier = (*RecordingNotifier)(nil)

type RecordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (n *RecordingNotifier) NotifyRole(role ports.Role, payload any) {
	n.record(Notification{Role: role, Payload: payload})
}

func (n *RecordingNotifier) NotifyUser(role ports.Role, userID string, payload any) {
	n.record(Notification{Role: role, UserID: userID, Payload: payload})
}

func (n *RecordingNotifier) Broadcast(payload any) {
	n.record(Notification{Payload: payload})
}

func (n *RecordingNotifier) record(notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

// Drain returns the notifications recorded since the previous call.
func (n *RecordingNotifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.sent
	n.sent = nil
	return out
}

// StubGeocoder resolves addresses by their query string. Unknown addresses
// yield Err, or errs.ErrUpstreamUnavailable when Err is nil.
type StubGeocoder struct {
	Known map[string]kernel.Coordinates
	Err   error
}

func (g StubGeocoder) Geocode(_ context.Context, address kernel.Address) (kernel.Coordinates, error) {
	if c, ok := g.Known[address.Query()]; ok {
		return c, nil
	}
	if g.Err != nil {
		return kernel.Coordinates{}, g.Err
	}
	return kernel.Coordinates{}, errs.NewUpstreamUnavailableError("geocoder")
}
