package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/coredna-chatbot/knowledge"
	"github.com/tieubaoca/coredna-chatbot/types"
)

type KnowledgeHandler struct {
	store *knowledge.Store
}

func NewKnowledgeHandler(store *knowledge.Store) *KnowledgeHandler {
	return &KnowledgeHandler{
		store: store,
	}
}

// HandleTopics answers GET /api/topics.
func (h *KnowledgeHandler) HandleTopics(c *gin.Context) {
	topics := h.store.ListTopics()
	c.JSON(http.StatusOK, types.TopicsResponse{
		Topics: topics,
		Count:  len(topics),
	})
}

// HandleKnowledge answers GET /api/knowledge/:slug.
func (h *KnowledgeHandler) HandleKnowledge(c *gin.Context) {
	slug := c.Param("slug")
	page, ok := h.store.GetPage(slug)
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error: "Content not found",
		})
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleHealth answers GET /api/health.
func (h *KnowledgeHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "CoreDNA Chatbot",
	})
}
