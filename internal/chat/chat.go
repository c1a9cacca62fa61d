// Package chat manages per-user support conversations. Each user has at most
// one session, created lazily on the first message, with independent unread
// counters for the user and for support staff. Callers pass their role
// explicitly; it is never inferred from ambient session state.
package chat

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// Role identifies which side of the conversation is acting.
type Role string

// Conversation roles.
const (
	RoleUser  Role = Role(models.ChatSenderUser)
	RoleAdmin Role = Role(models.ChatSenderAdmin)
)

// Service owns session and message persistence.
type Service struct {
	db *gorm.DB
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// History returns the user's session and full message list in send order.
// A user without a session gets a zero session and no messages.
func (s *Service) History(ctx context.Context, userID string) (models.ChatSession, []models.ChatMessage, error) {
	var session models.ChatSession
	if errFind := s.db.WithContext(ctx).First(&session, "user_id = ?", userID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.ChatSession{UserID: userID}, nil, nil
		}
		return models.ChatSession{}, nil, errFind
	}

	var messages []models.ChatMessage
	if errMsgs := s.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("id ASC").
		Find(&messages).Error; errMsgs != nil {
		return models.ChatSession{}, nil, errMsgs
	}
	return session, messages, nil
}

// Send appends a message from the given role to the user's session, creating
// the session when absent, and increments the unread counter of the other
// party.
func (s *Service) Send(ctx context.Context, userID string, from Role, body string) (models.ChatMessage, error) {
	var msg models.ChatMessage
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.ChatSession
		errFind := tx.First(&session, "user_id = ?", userID).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			session = models.ChatSession{UserID: userID}
			if errCreate := tx.Create(&session).Error; errCreate != nil {
				return errCreate
			}
		} else if errFind != nil {
			return errFind
		}

		msg = models.ChatMessage{
			SessionID: session.ID,
			Sender:    string(from),
			Body:      body,
		}
		if errCreate := tx.Create(&msg).Error; errCreate != nil {
			return errCreate
		}

		counter := "admin_unread_count"
		if from == RoleAdmin {
			counter = "user_unread_count"
		}
		return tx.Model(&session).Update(counter, gorm.Expr(counter+" + 1")).Error
	})
	if errTx != nil {
		return models.ChatMessage{}, fmt.Errorf("chat: send: %w", errTx)
	}
	return msg, nil
}

// MarkRead zeroes the unread counter belonging to the given role. Marking a
// nonexistent session read is a no-op.
func (s *Service) MarkRead(ctx context.Context, userID string, role Role) error {
	counter := "user_unread_count"
	if role == RoleAdmin {
		counter = "admin_unread_count"
	}
	return s.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("user_id = ?", userID).
		Update(counter, 0).Error
}

// SessionSummary is one row of the support console overview.
type SessionSummary struct {
	Session  models.ChatSession
	UserName string
}

// Sessions lists all sessions, most recently active first, with display
// names resolved.
func (s *Service) Sessions(ctx context.Context) ([]SessionSummary, error) {
	var sessions []models.ChatSession
	if errFind := s.db.WithContext(ctx).Order("updated_at DESC").Find(&sessions).Error; errFind != nil {
		return nil, errFind
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.UserID)
	}
	var users []models.User
	if errUsers := s.db.WithContext(ctx).Select("id", "name", "phone").Where("id IN ?", ids).Find(&users).Error; errUsers != nil {
		return nil, errUsers
	}
	names := make(map[string]string, len(users))
	for _, user := range users {
		name := user.Name
		if name == "" {
			name = user.Phone
		}
		names[user.ID] = name
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, SessionSummary{Session: session, UserName: names[session.UserID]})
	}
	return out, nil
}
