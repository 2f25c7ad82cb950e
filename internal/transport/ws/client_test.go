package ws

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(nil, nil, logger)
}

func TestClient_SendNeverBlocks(t *testing.T) {
	c := testClient()

	// Fill the buffer well past capacity without a write pump draining it
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize*2; i++ {
			c.Send(map[string]string{"id": "game_end"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a full buffer; a stalled peer would stall broadcasts")
	}
}

func TestClient_SendAfterCloseIsNoop(t *testing.T) {
	c := testClient()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	assert.NoError(t, c.Send(map[string]string{"id": "game_end"}))
	assert.Empty(t, c.send)
}

func TestClient_HasUniqueID(t *testing.T) {
	a := testClient()
	b := testClient()

	require.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}
