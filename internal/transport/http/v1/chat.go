package v1

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nimbusdesk/supportchat/classify"
)

type sendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type sendResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type historyResponse struct {
	Messages []messageDTO `json:"messages"`
}

// SendMessage handles POST /chat.
func (h *Handler) SendMessage(c echo.Context) error {
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	reply, err := h.service.SendMessage(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		var classified *classify.Error
		if errors.As(err, &classified) {
			return c.JSON(classified.Result.Status, map[string]string{"error": classified.Result.Message})
		}
		log.Printf("ERROR: send message failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, sendResponse{Reply: reply.Reply, SessionID: reply.SessionID})
}

// GetHistory handles GET /chat.
func (h *Handler) GetHistory(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "sessionId is required"})
	}

	messages, err := h.service.History(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: history fetch failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	out := make([]messageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageDTO{
			ID:        m.MessageID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, historyResponse{Messages: out})
}
