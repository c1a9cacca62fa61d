package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

func setupChatDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := db.AutoMigrate(&models.User{}, &models.ChatSession{}, &models.ChatMessage{}); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return db
}

func TestHistoryWithoutSession(t *testing.T) {
	svc := NewService(setupChatDB(t))

	session, messages, errHistory := svc.History(context.Background(), "ID:900001")
	if errHistory != nil {
		t.Fatalf("history: %v", errHistory)
	}
	if session.ID != 0 || session.UserID != "ID:900001" {
		t.Fatalf("expected zero session for absent user, got %+v", session)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages, got %d", len(messages))
	}
}

func TestSendCreatesSessionAndCountsOpposite(t *testing.T) {
	svc := NewService(setupChatDB(t))
	ctx := context.Background()

	msg, errSend := svc.Send(ctx, "ID:900002", RoleUser, "hello support")
	if errSend != nil {
		t.Fatalf("send: %v", errSend)
	}
	if msg.Sender != models.ChatSenderUser || msg.Body != "hello support" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	session, messages, errHistory := svc.History(ctx, "ID:900002")
	if errHistory != nil {
		t.Fatalf("history: %v", errHistory)
	}
	if session.ID == 0 {
		t.Fatal("expected session created lazily")
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	// A user message is unread for support staff, not for the user.
	if session.AdminUnreadCount != 1 || session.UserUnreadCount != 0 {
		t.Fatalf("unexpected counters: admin=%d user=%d", session.AdminUnreadCount, session.UserUnreadCount)
	}

	if _, errReply := svc.Send(ctx, "ID:900002", RoleAdmin, "how can we help?"); errReply != nil {
		t.Fatalf("reply: %v", errReply)
	}
	session, messages, errHistory = svc.History(ctx, "ID:900002")
	if errHistory != nil {
		t.Fatalf("history: %v", errHistory)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if session.AdminUnreadCount != 1 || session.UserUnreadCount != 1 {
		t.Fatalf("unexpected counters after reply: admin=%d user=%d", session.AdminUnreadCount, session.UserUnreadCount)
	}
}

func TestMarkReadZeroesOwnCounterOnly(t *testing.T) {
	svc := NewService(setupChatDB(t))
	ctx := context.Background()

	if _, errSend := svc.Send(ctx, "ID:900003", RoleUser, "ping"); errSend != nil {
		t.Fatalf("send: %v", errSend)
	}
	if _, errSend := svc.Send(ctx, "ID:900003", RoleAdmin, "pong"); errSend != nil {
		t.Fatalf("send: %v", errSend)
	}

	if errMark := svc.MarkRead(ctx, "ID:900003", RoleAdmin); errMark != nil {
		t.Fatalf("mark read: %v", errMark)
	}
	session, _, errHistory := svc.History(ctx, "ID:900003")
	if errHistory != nil {
		t.Fatalf("history: %v", errHistory)
	}
	if session.AdminUnreadCount != 0 {
		t.Fatalf("expected admin counter zeroed, got %d", session.AdminUnreadCount)
	}
	if session.UserUnreadCount != 1 {
		t.Fatalf("expected user counter untouched, got %d", session.UserUnreadCount)
	}
}

func TestMarkReadWithoutSessionIsNoop(t *testing.T) {
	svc := NewService(setupChatDB(t))
	if errMark := svc.MarkRead(context.Background(), "ID:900004", RoleUser); errMark != nil {
		t.Fatalf("expected no-op, got %v", errMark)
	}
}

func TestSessionsResolveDisplayNames(t *testing.T) {
	db := setupChatDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := models.User{ID: "ID:900005", Phone: "+15559005", Password: "x", Name: "Named User", IsActive: true}
	if errCreate := db.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	if _, errSend := svc.Send(ctx, user.ID, RoleUser, "hi"); errSend != nil {
		t.Fatalf("send: %v", errSend)
	}

	summaries, errList := svc.Sessions(ctx)
	if errList != nil {
		t.Fatalf("sessions: %v", errList)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 session, got %d", len(summaries))
	}
	if summaries[0].UserName != "Named User" {
		t.Fatalf("expected resolved name, got %q", summaries[0].UserName)
	}
	if summaries[0].Session.AdminUnreadCount != 1 {
		t.Fatalf("expected admin unread 1, got %d", summaries[0].Session.AdminUnreadCount)
	}
}
