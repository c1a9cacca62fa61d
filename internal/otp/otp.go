// Package otp issues and verifies purpose-scoped one-time codes delivered
// over the SMS channel. Each (purpose, key) pair holds at most one pending
// code; re-issuing overwrites and a successful consume is single-use.
package otp

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wealthora/backend/internal/security"
)

// Purpose scopes a code to the flow that requested it.
type Purpose string

// Verification purposes.
const (
	PurposeRegistration  Purpose = "registration"
	PurposeBankAccount   Purpose = "bank_account"
	PurposeFundPassword  Purpose = "fund_password"
	PurposePasswordReset Purpose = "password_reset"
)

// Verification errors. All consume failures fail closed.
var (
	// ErrNotFound indicates no pending code exists for the key.
	ErrNotFound = errors.New("otp: no pending code")
	// ErrMismatch indicates the presented code does not match.
	ErrMismatch = errors.New("otp: code mismatch")
	// ErrExpired indicates the matching code has expired.
	ErrExpired = errors.New("otp: code expired")
)

// codeLength is the number of digits in a generated code.
const codeLength = 6

// Record is a pending code with its expiry.
type Record struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists pending codes. Implementations must overwrite on Put.
type Store interface {
	Put(ctx context.Context, purpose Purpose, key string, rec Record) error
	Get(ctx context.Context, purpose Purpose, key string) (Record, bool, error)
	Delete(ctx context.Context, purpose Purpose, key string) error
}

// Sender delivers a code to its recipient out of band.
type Sender interface {
	Send(ctx context.Context, recipient, message string) error
}

// Service issues and consumes one-time codes.
type Service struct {
	store  Store
	sender Sender
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs a Service. A nil sender suppresses delivery, which
// is only useful in tests.
func NewService(store Store, sender Sender, ttl time.Duration) *Service {
	return &Service{store: store, sender: sender, ttl: ttl, now: time.Now}
}

// Issue generates a fresh code for (purpose, key), overwriting any pending
// one, and delivers it through the sender. The code is returned for logging
// surfaces that expose it in simulation mode.
func (s *Service) Issue(ctx context.Context, purpose Purpose, key string) (string, error) {
	code, errGen := security.GenerateNumericCode(codeLength)
	if errGen != nil {
		return "", errGen
	}

	rec := Record{Code: code, ExpiresAt: s.now().Add(s.ttl)}
	if errPut := s.store.Put(ctx, purpose, key, rec); errPut != nil {
		return "", errPut
	}

	if s.sender != nil {
		if errSend := s.sender.Send(ctx, key, verificationMessage(purpose, code)); errSend != nil {
			log.WithError(errSend).WithField("purpose", string(purpose)).Warn("otp: delivery failed")
		}
	}
	return code, nil
}

// Verify checks a presented code without invalidating it, so a caller can
// run further fallible work before committing the consume. An expired-but-
// matching code still deletes the stale record.
func (s *Service) Verify(ctx context.Context, purpose Purpose, key, code string) error {
	rec, ok, errGet := s.store.Get(ctx, purpose, key)
	if errGet != nil {
		return errGet
	}
	if !ok {
		return ErrNotFound
	}
	if rec.Code != code {
		return ErrMismatch
	}
	if !s.now().Before(rec.ExpiresAt) {
		if errDelete := s.store.Delete(ctx, purpose, key); errDelete != nil {
			log.WithError(errDelete).Warn("otp: stale record cleanup failed")
		}
		return ErrExpired
	}
	return nil
}

// Invalidate discards any pending code for (purpose, key).
func (s *Service) Invalidate(ctx context.Context, purpose Purpose, key string) error {
	return s.store.Delete(ctx, purpose, key)
}

// Consume verifies a presented code and deletes it on success, so a second
// consume of the same code fails.
func (s *Service) Consume(ctx context.Context, purpose Purpose, key, code string) error {
	if errVerify := s.Verify(ctx, purpose, key, code); errVerify != nil {
		return errVerify
	}
	return s.store.Delete(ctx, purpose, key)
}

// verificationMessage formats the delivered SMS body.
func verificationMessage(purpose Purpose, code string) string {
	switch purpose {
	case PurposeRegistration:
		return "Your registration code is " + code
	case PurposeBankAccount:
		return "Your bank account verification code is " + code
	case PurposeFundPassword:
		return "Your fund password verification code is " + code
	case PurposePasswordReset:
		return "Your password reset code is " + code
	default:
		return "Your verification code is " + code
	}
}
