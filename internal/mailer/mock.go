package mailer

import (
	"context"
	"sync"
)

// Mock records messages instead of sending them.
type Mock struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (m *Mock) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *Mock) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
