package http

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

func startManager(t *testing.T) (*ConnectionManager, context.CancelFunc) {
	t.Helper()
	cm := NewConnectionManager(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go cm.Run(ctx)
	t.Cleanup(cancel)
	return cm, cancel
}

func TestConnectionManager(t *testing.T) {
	t.Run("register and unregister connection", func(t *testing.T) {
		cm, _ := startManager(t)

		send := make(chan ports.UpdateEvent, 1)
		assert.True(t, cm.RegisterConnection(&Connection{ID: "test-conn", Send: send}))
		assert.Eventually(t, func() bool { return cm.Count() == 1 }, time.Second, 5*time.Millisecond)

		cm.Unregister("test-conn")
		assert.Eventually(t, func() bool { return cm.Count() == 0 }, time.Second, 5*time.Millisecond)

		_, open := <-send
		assert.False(t, open, "send channel should be closed on unregister")
	})

	t.Run("broadcast to connections", func(t *testing.T) {
		cm, _ := startManager(t)

		receivers := make([]chan ports.UpdateEvent, 3)
		for i := range receivers {
			receivers[i] = make(chan ports.UpdateEvent, 1)
			cm.RegisterConnection(&Connection{ID: fmt.Sprintf("c%d", i), Send: receivers[i]})
		}

		event := ports.UpdateEvent{Type: ports.EventTypeStateChanged, Timestamp: time.Now()}
		cm.Broadcast(event)

		for i, receiver := range receivers {
			select {
			case received := <-receiver:
				assert.Equal(t, event.Type, received.Type)
			case <-time.After(time.Second):
				t.Errorf("Connection %d did not receive event", i)
			}
		}
	})

	t.Run("slow client is dropped", func(t *testing.T) {
		cm, _ := startManager(t)

		slow := make(chan ports.UpdateEvent) // never read, no buffer
		cm.RegisterConnection(&Connection{ID: "slow", Send: slow})

		cm.Broadcast(ports.UpdateEvent{Type: "x"})

		assert.Eventually(t, func() bool { return cm.Count() == 0 }, time.Second, 5*time.Millisecond)
		_, open := <-slow
		assert.False(t, open)
	})

	t.Run("close all connections", func(t *testing.T) {
		cm, _ := startManager(t)

		for i := 0; i < 5; i++ {
			cm.RegisterConnection(&Connection{ID: fmt.Sprintf("c%d", i), Send: make(chan ports.UpdateEvent, 1)})
		}
		assert.Eventually(t, func() bool { return cm.Count() == 5 }, time.Second, 5*time.Millisecond)

		cm.CloseAll()
		assert.Equal(t, 0, cm.Count())

		// unregistering an already closed connection is a no-op
		assert.NotPanics(t, func() { cm.Unregister("c0") })
	})

	t.Run("concurrent operations", func(t *testing.T) {
		cm, _ := startManager(t)

		var wg sync.WaitGroup
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					id := fmt.Sprintf("%d-%d", g, j)
					cm.RegisterConnection(&Connection{ID: id, Send: make(chan ports.UpdateEvent, 1)})
					cm.Broadcast(ports.UpdateEvent{Type: "test", Timestamp: time.Now()})
					cm.Unregister(id)
				}
			}(g)
		}
		wg.Wait()

		assert.Eventually(t, func() bool { return cm.Count() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestConnectionManagerShutdown(t *testing.T) {
	cm, cancel := startManager(t)

	send := make(chan ports.UpdateEvent, 1)
	cm.RegisterConnection(&Connection{ID: "test", Send: send})

	cancel()
	<-cm.done

	_, open := <-send
	assert.False(t, open, "connections are closed on shutdown")

	done := make(chan struct{})
	go func() {
		cm.Broadcast(ports.UpdateEvent{Type: "test"})
		cm.Unregister("test")
		assert.False(t, cm.RegisterConnection(&Connection{ID: "late", Send: make(chan ports.UpdateEvent)}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("manager calls hung after shutdown")
	}
}
