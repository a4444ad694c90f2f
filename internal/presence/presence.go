package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "presence:"

// Tracker records user liveness in Redis. A key with TTL equal to the online
// window is refreshed on every authenticated request and websocket ping;
// "online" elsewhere in the system means the key still exists.
type Tracker struct {
	client *redis.Client
	window time.Duration
	logger *zap.Logger
}

// NewTracker builds a tracker. A nil client degrades to a no-op so the
// service stays usable without Redis.
func NewTracker(client *redis.Client, window time.Duration, logger *zap.Logger) *Tracker {
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &Tracker{client: client, window: window, logger: logger}
}

// Touch refreshes the user's liveness window.
func (t *Tracker) Touch(ctx context.Context, userID string) {
	if t == nil || t.client == nil {
		return
	}
	if err := t.client.Set(ctx, keyPrefix+userID, time.Now().UTC().Format(time.RFC3339), t.window).Err(); err != nil {
		t.logger.Debug("presence touch failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Online reports whether the user was active within the window.
func (t *Tracker) Online(ctx context.Context, userID string) bool {
	if t == nil || t.client == nil {
		return false
	}
	exists, err := t.client.Exists(ctx, keyPrefix+userID).Result()
	if err != nil {
		t.logger.Debug("presence lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return exists > 0
}

// OnlineSet filters the given user ids down to those currently online.
func (t *Tracker) OnlineSet(ctx context.Context, userIDs []string) map[string]bool {
	online := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if t.Online(ctx, id) {
			online[id] = true
		}
	}
	return online
}

// Window exposes the configured liveness window.
func (t *Tracker) Window() time.Duration {
	return t.window
}
