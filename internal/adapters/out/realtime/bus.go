// Package realtime keeps the role-indexed registry of live subscriber
// channels and fans events out to them.
package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"orderapi/internal/core/application/views"
	"orderapi/internal/core/ports"
	"orderapi/internal/metrics"
)

var (
	ErrChannelClosed = errors.New("channel is closed")
	ErrBufferFull    = errors.New("channel send buffer is full")
)

// Channel is one live subscriber connection. Send must not block: it either
// queues the payload or fails with ErrBufferFull or ErrChannelClosed.
type Channel interface {
	Send(payload []byte) error
	IsOpen() bool
}

var _ ports.Notifier = (*Bus)(nil)

// Bus is safe for concurrent use. Register and Unregister may run while a
// notification is being delivered; delivery works on a snapshot.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[ports.Role]map[Channel]string
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[ports.Role]map[Channel]string),
		logger:      logger.With("component", "realtime"),
	}
}

type recipient struct {
	role    ports.Role
	channel Channel
}

// Register adds ch under role and greets it. userID may be empty for an
// anonymous subscriber.
func (b *Bus) Register(role ports.Role, userID string, ch Channel) {
	b.mu.Lock()
	channels, ok := b.subscribers[role]
	if !ok {
		channels = make(map[Channel]string)
		b.subscribers[role] = channels
	}
	_, known := channels[ch]
	channels[ch] = userID
	b.mu.Unlock()

	if !known {
		metrics.ConnectedSubscribers.Inc()
	}
	b.logger.Info("subscriber connected", "role", role, "user_id", userID)

	b.deliver([]recipient{{role: role, channel: ch}}, views.NewConnectedEvent())
}

// Unregister removes ch. Unknown channels are ignored.
func (b *Bus) Unregister(role ports.Role, ch Channel) {
	b.mu.Lock()
	channels := b.subscribers[role]
	_, known := channels[ch]
	if known {
		delete(channels, ch)
		if len(channels) == 0 {
			delete(b.subscribers, role)
		}
	}
	b.mu.Unlock()

	if known {
		metrics.ConnectedSubscribers.Dec()
		b.logger.Info("subscriber disconnected", "role", role)
	}
}

// Count returns the number of channels registered under role.
func (b *Bus) Count(role ports.Role) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[role])
}

func (b *Bus) NotifyRole(role ports.Role, payload any) {
	recipients := b.collect(func(r ports.Role, _ string) bool { return r == role })
	if len(recipients) == 0 {
		b.logger.Debug("no subscribers for role", "role", role)
		return
	}
	b.deliver(recipients, payload)
}

func (b *Bus) NotifyUser(role ports.Role, userID string, payload any) {
	recipients := b.collect(func(r ports.Role, uid string) bool {
		return r == role && (uid == "" || uid == userID)
	})
	if len(recipients) == 0 {
		b.logger.Debug("no subscribers for user", "role", role, "user_id", userID)
		return
	}
	b.deliver(recipients, payload)
}

func (b *Bus) Broadcast(payload any) {
	b.deliver(b.collect(func(ports.Role, string) bool { return true }), payload)
}

func (b *Bus) collect(match func(role ports.Role, userID string) bool) []recipient {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []recipient
	for role, channels := range b.subscribers {
		for ch, userID := range channels {
			if match(role, userID) {
				out = append(out, recipient{role: role, channel: ch})
			}
		}
	}
	return out
}

// deliver serializes payload once and hands it to every recipient.
func (b *Bus) deliver(recipients []recipient, payload any) {
	if len(recipients) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to serialize notification", "error", err)
		return
	}

	for _, r := range recipients {
		outcome := metrics.OutcomeOK
		switch {
		case !r.channel.IsOpen():
			outcome = metrics.OutcomeSkipped
		default:
			if err := r.channel.Send(data); err != nil {
				outcome = metrics.OutcomeDropped
				if errors.Is(err, ErrChannelClosed) {
					outcome = metrics.OutcomeSkipped
				}
				b.logger.Debug("notification not delivered", "role", r.role, "error", err)
			}
		}
		metrics.NotificationsTotal.WithLabelValues(string(r.role), outcome).Inc()
	}
}
