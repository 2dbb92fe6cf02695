package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/types"
)

func dialTestWebSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	store := newTestStore()
	chatbot := NewChatbotService(store, NewSearchService(store), zap.NewNop())
	wsService := NewWebSocketService(chatbot, zap.NewNop())

	server := httptest.NewServer(http.HandlerFunc(wsService.HandleChat))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) types.WebSocketResponse {
	t.Helper()
	var reply types.WebSocketResponse
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebSocketChat(t *testing.T) {
	conn := dialTestWebSocket(t)

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{
		Type:    types.TypeWebsocketChat,
		Payload: types.WebSocketChatPayload{Message: "hello"},
	}))

	reply := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketChat, reply.Type)

	payload, err := json.Marshal(reply.Payload)
	require.NoError(t, err)
	var greeting types.GreetingResponse
	require.NoError(t, json.Unmarshal(payload, &greeting))
	assert.Equal(t, types.TypeGreeting, greeting.Type)
	assert.Len(t, greeting.Suggestions, 4)
}

func TestWebSocketPing(t *testing.T) {
	conn := dialTestWebSocket(t)

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{Type: types.TypeWebsocketPing}))
	reply := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketPong, reply.Type)
}

func TestWebSocketRejectsEmptyMessage(t *testing.T) {
	conn := dialTestWebSocket(t)

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{
		Type:    types.TypeWebsocketChat,
		Payload: types.WebSocketChatPayload{Message: ""},
	}))
	reply := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketError, reply.Type)
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	conn := dialTestWebSocket(t)

	require.NoError(t, conn.WriteJSON(types.WebsocketRequest{Type: "subscribe"}))
	reply := readResponse(t, conn)
	assert.Equal(t, types.TypeWebsocketError, reply.Type)
}
