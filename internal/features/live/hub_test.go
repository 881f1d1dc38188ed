package live

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	messages chan []byte
}

func newFakeConn() *fakeConn {
	return &fakeConn{messages: make(chan []byte, 16)}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.messages <- data
	return nil
}

func TestPublishWithNoClients(t *testing.T) {
	hub := NewHub()
	hub.Publish("report.created", map[string]int{"id": 1})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestPublishDeliversEnvelope(t *testing.T) {
	hub := NewHub()
	conn := newFakeConn()
	hub.register(conn)

	hub.Publish("report.created", map[string]int64{"id": 7})

	select {
	case msg := <-conn.messages:
		var envelope struct {
			Event   string         `json:"event"`
			Payload map[string]any `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg, &envelope))
		assert.Equal(t, "report.created", envelope.Event)
		assert.Equal(t, float64(7), envelope.Payload["id"])
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	conn := newFakeConn()
	hub.register(conn)
	require.Equal(t, 1, hub.ClientCount())

	hub.unregister(conn)
	assert.Equal(t, 0, hub.ClientCount())

	// Publishing after unregister must not panic or deliver.
	hub.Publish("report.deleted", map[string]int64{"id": 1})
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()

	// A connection whose writer never drains blocks its queue.
	stuck := &fakeConn{messages: make(chan []byte)}
	hub.register(stuck)

	// Overfill the per-client queue; the hub must drop the client rather
	// than block the publisher.
	for i := 0; i < 70; i++ {
		hub.Publish("report.updated", map[string]int{"seq": i})
	}

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
