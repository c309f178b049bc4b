package handlers

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
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/services/events"
)

func dialTestServer(t *testing.T, h *WebSocketHandler) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocketHello(t *testing.T) {
	h := NewWebSocketHandler(nil, arbor.Logger())
	conn := dialTestServer(t, h)

	msg := readMessage(t, conn)
	assert.Equal(t, "hello", msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, payload["server_instance_id"])
}

func TestWebSocketRelaysProgressEvents(t *testing.T) {
	eventService := events.NewService(arbor.Logger())
	defer eventService.Close()

	h := NewWebSocketHandler(eventService, arbor.Logger())
	conn := dialTestServer(t, h)

	// consume the hello frame first
	hello := readMessage(t, conn)
	require.Equal(t, "hello", hello.Type)

	err := eventService.Publish(context.Background(), interfaces.Event{
		Type:    interfaces.EventImageReady,
		Payload: map[string]interface{}{"slide_id": "s3"},
	})
	require.NoError(t, err)

	msg := readMessage(t, conn)
	assert.Equal(t, string(interfaces.EventImageReady), msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "s3", payload["slide_id"])
}

func TestBroadcastWithNoClients(t *testing.T) {
	h := NewWebSocketHandler(nil, arbor.Logger())
	// must not panic
	h.Broadcast(WSMessage{Type: "status", Payload: map[string]string{"ok": "yes"}})
}
