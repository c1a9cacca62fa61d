package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/wealthora/backend/internal/chat"
)

// ChatHandler handles the user side of support conversations.
type ChatHandler struct {
	svc *chat.Service
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// History returns the user's conversation and unread count.
func (h *ChatHandler) History(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	session, messages, errHistory := h.svc.History(c.Request.Context(), userID)
	if errHistory != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"unread":   session.UserUnreadCount,
	})
}

// sendMessageRequest defines the request body for sending a message.
type sendMessageRequest struct {
	Body string `json:"body"`
}

// Send appends a message from the user, creating the session on first use.
func (h *ChatHandler) Send(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body sendMessageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	text := strings.TrimSpace(body.Body)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty message"})
		return
	}

	msg, errSend := h.svc.Send(c.Request.Context(), userID, chat.RoleUser, text)
	if errSend != nil {
		log.WithError(errSend).WithField("user", userID).Error("send chat message failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkRead zeroes the user's unread counter.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if errMark := h.svc.MarkRead(c.Request.Context(), userID, chat.RoleUser); errMark != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
