package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Channel is one live push connection. Implementations must be safe for
// concurrent Send calls.
type Channel interface {
	Send(payload any) error
	Close() error
}

// Registry tracks which users currently hold open push channels. A user may
// hold arbitrarily many concurrent channels (multiple tabs or devices); none
// supersede another. The registry is injected where needed rather than kept
// as a process global so it can be unit-tested without a network layer and
// later swapped for a shared pub/sub backend.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[Channel]struct{}
	owner  map[Channel]string
	logger *zap.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		byUser: make(map[string]map[Channel]struct{}),
		owner:  make(map[Channel]string),
		logger: logger,
	}
}

// Connect registers the channel under the user.
func (r *Registry) Connect(ch Channel, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.byUser[userID]
	if !ok {
		set = make(map[Channel]struct{})
		r.byUser[userID] = set
	}
	set[ch] = struct{}{}
	r.owner[ch] = userID
}

// Disconnect removes the channel from both maps. When a user's channel set
// empties, the entry is dropped entirely so registry memory stays bounded by
// active users.
func (r *Registry) Disconnect(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(ch)
}

func (r *Registry) removeLocked(ch Channel) {
	userID, ok := r.owner[ch]
	if !ok {
		return
	}
	delete(r.owner, ch)
	if set, ok := r.byUser[userID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(r.byUser, userID)
		}
	}
}

// SendToUser delivers the payload to every channel registered for the user
// and returns the number of successful deliveries. Channels that fail to
// accept the send are treated as already-disconnected and evicted as a side
// effect.
func (r *Registry) SendToUser(userID string, payload any) int {
	r.mu.RLock()
	channels := make([]Channel, 0, len(r.byUser[userID]))
	for ch := range r.byUser[userID] {
		channels = append(channels, ch)
	}
	r.mu.RUnlock()

	delivered := 0
	var dead []Channel
	for _, ch := range channels {
		if err := ch.Send(payload); err != nil {
			dead = append(dead, ch)
			continue
		}
		delivered++
	}

	if len(dead) > 0 {
		r.mu.Lock()
		for _, ch := range dead {
			r.removeLocked(ch)
		}
		r.mu.Unlock()
		for _, ch := range dead {
			_ = ch.Close()
		}
		if r.logger != nil {
			r.logger.Debug("evicted dead channels",
				zap.String("user_id", userID),
				zap.Int("count", len(dead)))
		}
	}
	return delivered
}

// SendToUsers iterates SendToUser over the given ids. No ordering guarantee
// across recipients and no atomicity: one user's failure never blocks
// delivery to the rest.
func (r *Registry) SendToUsers(userIDs []string, payload any) {
	for _, id := range userIDs {
		r.SendToUser(id, payload)
	}
}

// BroadcastAll sends the payload to every connected user.
func (r *Registry) BroadcastAll(payload any) {
	r.mu.RLock()
	userIDs := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		userIDs = append(userIDs, id)
	}
	r.mu.RUnlock()
	r.SendToUsers(userIDs, payload)
}

// Connected reports whether the user holds at least one live channel.
func (r *Registry) Connected(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// ConnectionCount returns the number of live channels for the user.
func (r *Registry) ConnectionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}
