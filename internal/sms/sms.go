// Package sms provides the simulated SMS channel. Messages are not sent
// anywhere; they are logged and kept in a small in-memory outbox that a
// development UI can poll. A real gateway would replace this package behind
// the same Send method.
package sms

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Outbox limits matching the simulated channel: at most maxVisible messages
// are shown at once and each disappears after visibleFor.
const (
	maxVisible = 3
	visibleFor = 15 * time.Second
)

// Message is one simulated SMS.
type Message struct {
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// Simulator is an in-memory SMS channel.
type Simulator struct {
	mu     sync.Mutex
	recent []Message
	now    func() time.Time
}

// NewSimulator creates an empty Simulator.
func NewSimulator() *Simulator {
	return &Simulator{now: time.Now}
}

// Send records and logs the message. It never fails.
func (s *Simulator) Send(_ context.Context, recipient, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, Message{
		Recipient: recipient,
		Body:      message,
		SentAt:    s.now(),
	})
	s.prune()

	log.WithFields(log.Fields{
		"recipient": recipient,
		"body":      message,
	}).Info("sms: simulated delivery")
	return nil
}

// Visible returns the messages still within their display window, newest
// last, capped at the outbox limit.
func (s *Simulator) Visible() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	out := make([]Message, len(s.recent))
	copy(out, s.recent)
	return out
}

// prune drops expired messages and trims to the visible cap. Callers hold mu.
func (s *Simulator) prune() {
	cutoff := s.now().Add(-visibleFor)
	kept := s.recent[:0]
	for _, m := range s.recent {
		if m.SentAt.After(cutoff) {
			kept = append(kept, m)
		}
	}
	s.recent = kept
	if len(s.recent) > maxVisible {
		s.recent = s.recent[len(s.recent)-maxVisible:]
	}
}
