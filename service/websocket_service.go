package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/types"
)

type WebSocketService struct {
	chatbot  *ChatbotService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketService(chatbot *ChatbotService, logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		chatbot: chatbot,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleChat upgrades the connection and answers chat payloads with the
// same responses the HTTP endpoint produces. Each connection gets its own
// session id.
func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log := s.logger.With(zap.String("session", sessionID))

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.writeError(conn, log, "Invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, log, "Invalid message")
				continue
			}
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.Message == "" {
				s.writeError(conn, log, "Message is required and must be a string")
				continue
			}
			response := s.chatbot.ProcessMessage(payload.Message)
			reply := types.WebSocketResponse{
				Type:    types.TypeWebsocketChat,
				Payload: response,
			}
			if err := conn.WriteJSON(reply); err != nil {
				log.Warn("websocket write error", zap.Error(err))
				return
			}
		case types.TypeWebsocketPing:
			pong := types.WebSocketResponse{
				Type:    types.TypeWebsocketPong,
				Payload: nil,
			}
			if err := conn.WriteJSON(pong); err != nil {
				log.Warn("websocket write error", zap.Error(err))
				return
			}
		default:
			s.writeError(conn, log, "Invalid message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, log *zap.Logger, message string) {
	reply := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	}
	if err := conn.WriteJSON(reply); err != nil {
		log.Warn("websocket write error", zap.Error(err))
	}
}
