package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wealthora/backend/internal/chat"
)

// ChatHandler handles the support console endpoints.
type ChatHandler struct {
	svc *chat.Service
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Sessions lists all conversations, most recently active first.
func (h *ChatHandler) Sessions(c *gin.Context) {
	summaries, errList := h.svc.Sessions(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list sessions failed"})
		return
	}

	out := make([]gin.H, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, gin.H{
			"user_id":            s.Session.UserID,
			"user_name":          s.UserName,
			"admin_unread_count": s.Session.AdminUnreadCount,
			"user_unread_count":  s.Session.UserUnreadCount,
			"updated_at":         s.Session.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// History returns the conversation with one user.
func (h *ChatHandler) History(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	session, messages, errHistory := h.svc.History(c.Request.Context(), userID)
	if errHistory != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":            userID,
		"admin_unread_count": session.AdminUnreadCount,
		"messages":           messages,
	})
}

// chatSendRequest defines the request body for sending a message.
type chatSendRequest struct {
	Body string `json:"body"`
}

// Send posts a support reply to a user.
func (h *ChatHandler) Send(c *gin.Context) {
	var body chatSendRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	text := strings.TrimSpace(body.Body)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message body is required"})
		return
	}

	message, errSend := h.svc.Send(c.Request.Context(), strings.TrimSpace(c.Param("userID")), chat.RoleAdmin, text)
	if errSend != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		return
	}
	c.JSON(http.StatusCreated, message)
}

// MarkRead clears the support-side unread counter for one conversation.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	if errMark := h.svc.MarkRead(c.Request.Context(), strings.TrimSpace(c.Param("userID")), chat.RoleAdmin); errMark != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
