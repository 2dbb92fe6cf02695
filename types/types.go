package types

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketChatPayload struct {
	Message string `json:"message"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketErrorResponse struct {
	Message string `json:"message"`
}
