package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/pkg/livefeed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, requesterID string, buffer int) *Client {
	t.Helper()
	client := &Client{Hub: hub, RequesterID: requesterID, Send: make(chan []byte, buffer)}
	require.True(t, hub.add(client))
	require.Eventually(t, func() bool { return hub.Connections(requesterID) > 0 }, time.Second, 5*time.Millisecond)
	return client
}

func TestPublishReachesOnlyTheRequester(t *testing.T) {
	hub := startHub(t)
	alice1 := connect(t, hub, "alice", 4)
	alice2 := connect(t, hub, "alice", 4)
	bob := connect(t, hub, "bob", 4)
	assert.Equal(t, 2, hub.Connections("alice"))

	update := livefeed.Update{ID: "b-1", RequesterID: "alice", Index: 0}
	require.NoError(t, hub.Publish(context.Background(), update))

	for _, c := range []*Client{alice1, alice2} {
		select {
		case msg := <-c.Send:
			var frame struct {
				Type string          `json:"type"`
				Data livefeed.Update `json:"data"`
			}
			require.NoError(t, json.Unmarshal(msg, &frame))
			assert.Equal(t, livefeed.EventType, frame.Type)
			assert.Equal(t, "b-1", frame.Data.ID)
		default:
			t.Fatal("expected a queued message")
		}
	}
	assert.Empty(t, bob.Send)
}

func TestSlowClientIsDroppedOnce(t *testing.T) {
	hub := startHub(t)
	slow := connect(t, hub, "carol", 1)

	update := livefeed.Update{RequesterID: "carol"}
	require.NoError(t, hub.Publish(context.Background(), update))
	require.NoError(t, hub.Publish(context.Background(), update))

	assert.Zero(t, hub.Connections("carol"))

	// The queued message is still readable, then the channel reports closed.
	_, ok := <-slow.Send
	assert.True(t, ok)
	_, ok = <-slow.Send
	assert.False(t, ok)

	// A late unregister from the read pump must not close the channel again.
	hub.remove(slow)
	assert.Zero(t, hub.Connections("carol"))
}

func TestClusterMessagesFromSelfAreIgnored(t *testing.T) {
	hub := startHub(t)
	c := connect(t, hub, "dave", 4)

	own, _ := json.Marshal(clusterMessage{Origin: hub.instanceID, RequesterID: "dave", Message: json.RawMessage(`{}`)})
	hub.handleClusterMessage(own)
	assert.Empty(t, c.Send)

	other, _ := json.Marshal(clusterMessage{Origin: "other-instance", RequesterID: "dave", Message: json.RawMessage(`{"type":"x"}`)})
	hub.handleClusterMessage(other)
	require.Len(t, c.Send, 1)
	assert.JSONEq(t, `{"type":"x"}`, string(<-c.Send))
}

func TestStoppedHubRejectsClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := connect(t, hub, "erin", 1)
	cancel()
	<-stopped

	_, ok := <-c.Send
	assert.False(t, ok, "connections are closed on shutdown")
	assert.False(t, hub.add(&Client{Hub: hub, RequesterID: "erin", Send: make(chan []byte, 1)}))
}
