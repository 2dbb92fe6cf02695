package types

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}
