package websocket

import (
	"testing"
	"time"

	"pdf-extractor/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, sessionID string, buf int) *Client {
	c := &Client{Hub: h, SessionID: sessionID, Send: make(chan []byte, buf)}
	h.register <- c
	return c
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_SendReachesOnlyTargetSession(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()

	a1 := newTestClient(h, "a", 4)
	a2 := newTestClient(h, "a", 4)
	b := newTestClient(h, "b", 4)

	h.Send("a", []byte(`{"type":"state"}`))

	assert.Equal(t, `{"type":"state"}`, string(receive(t, a1)))
	assert.Equal(t, `{"type":"state"}`, string(receive(t, a2)))

	assert.Equal(t, 3, h.ClientCount())
	assert.Len(t, b.Send, 0)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()

	c := newTestClient(h, "a", 1)
	h.unregister <- c
	// Unregistering twice is harmless.
	h.unregister <- c

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()

	slow := newTestClient(h, "a", 1)
	h.Send("a", []byte("1"))
	h.Send("a", []byte("2"))

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "1", string(receive(t, slow)))
	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestHub_DroppingSlowClientKeepsOthers(t *testing.T) {
	h := NewHub(nil, logger.NewNopLogger())
	go h.Run()

	slow := newTestClient(h, "a", 0)
	b := newTestClient(h, "a", 4)
	c := newTestClient(h, "a", 4)

	h.Send("a", []byte("1"))

	assert.Equal(t, "1", string(receive(t, b)))
	assert.Equal(t, "1", string(receive(t, c)))
	assert.Equal(t, 2, h.ClientCount())
	assert.Len(t, b.Send, 0)
	assert.Len(t, c.Send, 0)

	_, ok := <-slow.Send
	assert.False(t, ok)

	h.Send("a", []byte("2"))
	assert.Equal(t, "2", string(receive(t, b)))
	assert.Equal(t, "2", string(receive(t, c)))
}
