package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/coredna-chatbot/service"
	"github.com/tieubaoca/coredna-chatbot/types"
)

type ChatHandler struct {
	chatbot *service.ChatbotService
}

func NewChatHandler(chatbot *service.ChatbotService) *ChatHandler {
	return &ChatHandler{
		chatbot: chatbot,
	}
}

// HandleChat answers POST /api/chat. The message must be a non-empty JSON
// string; the reply is the chatbot response with timestamp and session id
// folded in at the top level.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: "Message is required and must be a string",
		})
		return
	}

	response := h.chatbot.ProcessMessage(req.Message)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	body, err := chatEnvelope(response, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "Internal server error",
			Message: "Sorry, I encountered an error. Please try again.",
		})
		return
	}
	c.JSON(http.StatusOK, body)
}

// chatEnvelope flattens the response variant and adds the request metadata
// beside its fields, preserving the wire shape the chat UI renders.
func chatEnvelope(response types.Response, sessionID string) (map[string]interface{}, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	body := map[string]interface{}{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	body["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	body["sessionId"] = sessionID
	return body, nil
}
