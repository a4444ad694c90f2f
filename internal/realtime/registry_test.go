package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChannel struct {
	mu       sync.Mutex
	received []any
	fail     bool
	closed   bool
}

func (c *stubChannel) Send(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("send failed")
	}
	c.received = append(c.received, payload)
	return nil
}

func (c *stubChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *stubChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

func TestRegistryConnectDisconnect(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	ch := &stubChannel{}

	registry.Connect(ch, "user-1")
	assert.True(t, registry.Connected("user-1"))
	assert.Equal(t, 1, registry.ConnectionCount("user-1"))

	registry.Disconnect(ch)
	assert.False(t, registry.Connected("user-1"))
	assert.Equal(t, 0, registry.ConnectionCount("user-1"))

	// Disconnecting an unknown channel is harmless.
	registry.Disconnect(ch)
}

func TestRegistryMultipleChannelsPerUser(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	first := &stubChannel{}
	second := &stubChannel{}
	registry.Connect(first, "user-1")
	registry.Connect(second, "user-1")

	delivered := registry.SendToUser("user-1", "hello")
	assert.Equal(t, 2, delivered, "every open channel receives the payload")
	assert.Equal(t, 1, first.count())
	assert.Equal(t, 1, second.count())
}

func TestRegistrySendToOfflineUser(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	assert.Equal(t, 0, registry.SendToUser("nobody", "hello"))
}

func TestRegistryEvictsDeadChannels(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	alive := &stubChannel{}
	dead := &stubChannel{fail: true}
	registry.Connect(alive, "user-1")
	registry.Connect(dead, "user-1")

	delivered := registry.SendToUser("user-1", "hello")
	assert.Equal(t, 1, delivered)
	assert.True(t, dead.closed, "failed channel is closed")
	assert.Equal(t, 1, registry.ConnectionCount("user-1"), "failed channel is evicted")

	// A user whose last channel dies disappears from the registry.
	registry.Disconnect(alive)
	assert.False(t, registry.Connected("user-1"))
}

func TestRegistrySendToUsersAndBroadcast(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	one := &stubChannel{}
	two := &stubChannel{}
	three := &stubChannel{}
	registry.Connect(one, "user-1")
	registry.Connect(two, "user-2")
	registry.Connect(three, "user-3")

	registry.SendToUsers([]string{"user-1", "user-3"}, "targeted")
	assert.Equal(t, 1, one.count())
	assert.Equal(t, 0, two.count())
	assert.Equal(t, 1, three.count())

	registry.BroadcastAll("everyone")
	assert.Equal(t, 2, one.count())
	assert.Equal(t, 1, two.count())
	assert.Equal(t, 2, three.count())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := &stubChannel{}
			registry.Connect(ch, "user-1")
			registry.SendToUser("user-1", "ping")
			registry.Disconnect(ch)
		}()
	}
	wg.Wait()

	require.False(t, registry.Connected("user-1"))
}
