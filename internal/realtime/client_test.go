package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T, b *Broker) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, b, nil).Serve(context.Background())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestClient_RelaysTaskEventsToOtherSubscribers(t *testing.T) {
	b := NewBroker(nil, nil)
	srv := newWSServer(t, b)

	sender := dial(t, srv)
	receiver := dial(t, srv)

	open := Frame{Event: EventOpenProject, Data: json.RawMessage(`"p1"`)}
	require.NoError(t, sender.WriteJSON(open))
	require.NoError(t, receiver.WriteJSON(open))
	require.Eventually(t, func() bool { return b.Subscribers("p1") == 2 }, 2*time.Second, 10*time.Millisecond)

	task := json.RawMessage(`{"id":"t1","name":"Draft copy","project":"p1"}`)
	require.NoError(t, sender.WriteJSON(Frame{Event: EventNewTask, Data: task}))

	_ = receiver.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Frame
	require.NoError(t, receiver.ReadJSON(&got))
	assert.Equal(t, EventTaskAdded, got.Event)
	assert.JSONEq(t, string(task), string(got.Data))

	// The sender never sees its own event.
	_ = sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var echoed Frame
	assert.Error(t, sender.ReadJSON(&echoed))
}

func TestClient_DisconnectUnsubscribes(t *testing.T) {
	b := NewBroker(nil, nil)
	srv := newWSServer(t, b)

	conn := dial(t, srv)
	require.NoError(t, conn.WriteJSON(Frame{Event: EventOpenProject, Data: json.RawMessage(`{"id":"p9"}`)}))
	require.Eventually(t, func() bool { return b.Subscribers("p9") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return b.Subscribers("p9") == 0 }, 2*time.Second, 10*time.Millisecond)
}
