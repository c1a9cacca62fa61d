package models

import "time"

// Chat message senders.
const (
	ChatSenderUser  = "user"
	ChatSenderAdmin = "admin"
)

// ChatSession holds one support conversation per user, created lazily on the
// first message. The two unread counters are independent: each counts
// messages the named party has not read yet.
type ChatSession struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`              // Primary key.
	UserID string `gorm:"type:varchar(16);not null;uniqueIndex"` // Owning user ID.

	UserUnreadCount  int `gorm:"not null;default:0"` // Messages unread by the user.
	AdminUnreadCount int `gorm:"not null;default:0"` // Messages unread by support staff.

	Messages []ChatMessage `gorm:"foreignKey:SessionID"` // Ordered message history.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last activity timestamp.
}

// ChatMessage is a single message within a session.
type ChatMessage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"` // Primary key, ascending send order.
	SessionID uint64 `gorm:"not null;index"`           // Owning session ID.
	Sender    string `gorm:"type:varchar(8);not null"` // ChatSenderUser or ChatSenderAdmin.
	Body      string `gorm:"type:text;not null"`       // Message text.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Send timestamp.
}
