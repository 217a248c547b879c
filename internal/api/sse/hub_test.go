package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhalloran/golfsync/internal/testutil"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub("AB3X9K", testutil.NopLogger())
	go hub.Run()
	return hub
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := newTestHub(t)
	defer hub.Close()

	client := NewClient(hub, "u1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.BroadcastEvent("round", `{"code":"AB3X9K"}`)

	select {
	case msg := <-client.send:
		assert.Equal(t, "event: round\ndata: {\"code\":\"AB3X9K\"}\n\n", string(msg))
	case <-time.After(time.Second):
		t.Fatal("no broadcast delivered")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := newTestHub(t)
	defer hub.Close()

	client := NewClient(hub, "u1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Unregister(client)
	waitForClients(t, hub, 0)

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel left open after unregister")
	}
}

func TestHubRegisterAndUnregisterAfterClose(t *testing.T) {
	hub := newTestHub(t)

	client := NewClient(hub, "u1")
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Close()

	// Both return promptly instead of blocking on the stopped run loop.
	done := make(chan struct{})
	go func() {
		hub.Unregister(client)
		hub.Register(NewClient(hub, "u2"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after close")
	}
	waitForClients(t, hub, 0)
}

func TestFormatEventSplitsDataLines(t *testing.T) {
	frame := formatEvent("round", "line1\nline2")
	require.Equal(t, "event: round\ndata: line1\ndata: line2\n\n", string(frame))
}
