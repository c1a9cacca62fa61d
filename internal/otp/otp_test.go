package otp

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(ttl time.Duration) *Service {
	return NewService(NewMemoryStore(), nil, ttl)
}

func TestConsumeIsSingleUse(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeRegistration, "+15550001")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if len(code) != codeLength {
		t.Fatalf("expected %d-digit code, got %q", codeLength, code)
	}

	if errConsume := svc.Consume(ctx, PurposeRegistration, "+15550001", code); errConsume != nil {
		t.Fatalf("first consume: %v", errConsume)
	}
	if errConsume := svc.Consume(ctx, PurposeRegistration, "+15550001", code); !errors.Is(errConsume, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on reuse, got %v", errConsume)
	}
}

func TestConsumeRejectsMismatch(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeRegistration, "+15550002")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}

	if errConsume := svc.Consume(ctx, PurposeRegistration, "+15550002", "000000"); !errors.Is(errConsume, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", errConsume)
	}
	// A mismatch must not burn the pending code.
	if errConsume := svc.Consume(ctx, PurposeRegistration, "+15550002", code); errConsume != nil {
		t.Fatalf("consume after mismatch: %v", errConsume)
	}
}

func TestConsumeExpiredCodeDeletesRecord(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeFundPassword, "+15550003")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}

	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	if errConsume := svc.Consume(ctx, PurposeFundPassword, "+15550003", code); !errors.Is(errConsume, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", errConsume)
	}
	// The stale record is gone; retrying reports not-found, not expired.
	if errConsume := svc.Consume(ctx, PurposeFundPassword, "+15550003", code); !errors.Is(errConsume, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after cleanup, got %v", errConsume)
	}
}

func TestReissueOverwritesPendingCode(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	first, errIssue := svc.Issue(ctx, PurposeBankAccount, "+15550004")
	if errIssue != nil {
		t.Fatalf("issue first: %v", errIssue)
	}
	second, errIssue := svc.Issue(ctx, PurposeBankAccount, "+15550004")
	if errIssue != nil {
		t.Fatalf("issue second: %v", errIssue)
	}

	if first != second {
		if errConsume := svc.Consume(ctx, PurposeBankAccount, "+15550004", first); !errors.Is(errConsume, ErrMismatch) {
			t.Fatalf("expected old code rejected, got %v", errConsume)
		}
	}
	if errConsume := svc.Consume(ctx, PurposeBankAccount, "+15550004", second); errConsume != nil {
		t.Fatalf("consume second: %v", errConsume)
	}
}

func TestPurposesAreIsolated(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeRegistration, "+15550005")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}

	if errConsume := svc.Consume(ctx, PurposePasswordReset, "+15550005", code); !errors.Is(errConsume, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across purposes, got %v", errConsume)
	}
}

func TestVerifyLeavesCodePending(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeRegistration, "+15550006")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}

	// Verify any number of times; the code stays pending until invalidated.
	for i := 0; i < 2; i++ {
		if errVerify := svc.Verify(ctx, PurposeRegistration, "+15550006", code); errVerify != nil {
			t.Fatalf("verify %d: %v", i, errVerify)
		}
	}
	if errConsume := svc.Consume(ctx, PurposeRegistration, "+15550006", code); errConsume != nil {
		t.Fatalf("consume after verify: %v", errConsume)
	}
}

func TestInvalidateDiscardsPendingCode(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeRegistration, "+15550007")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if errInvalidate := svc.Invalidate(ctx, PurposeRegistration, "+15550007"); errInvalidate != nil {
		t.Fatalf("invalidate: %v", errInvalidate)
	}
	if errVerify := svc.Verify(ctx, PurposeRegistration, "+15550007", code); !errors.Is(errVerify, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after invalidate, got %v", errVerify)
	}
}

func TestVerifyExpiredCodeDeletesRecord(t *testing.T) {
	svc := newTestService(5 * time.Minute)
	ctx := context.Background()

	code, errIssue := svc.Issue(ctx, PurposeRegistration, "+15550008")
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}

	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	if errVerify := svc.Verify(ctx, PurposeRegistration, "+15550008", code); !errors.Is(errVerify, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", errVerify)
	}
	// The stale record is gone, not retryable.
	if errVerify := svc.Verify(ctx, PurposeRegistration, "+15550008", code); !errors.Is(errVerify, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after stale cleanup, got %v", errVerify)
	}
}
