package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/apexproperties/concierge/agent/contract"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleChatTurn accepts the full conversation history and returns one
// assistant reply. The endpoint holds no session state.
func (s *Server) handleChatTurn(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "messages are required"})
		return
	}

	messages := make([]contractx.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role != contractx.RoleUser && m.Role != contractx.RoleAssistant {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported message role: " + m.Role})
			return
		}
		messages = append(messages, contractx.Message{
			Role:    m.Role,
			Content: []contractx.Block{contractx.TextBlock(m.Content)},
		})
	}

	reply, err := s.turns.HandleTurn(c.Request.Context(), messages)
	if err != nil {
		log.Error().Err(err).Msg("chat turn failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, chatResponse{Message: reply})
}
