// Package eventstest provides an in-memory events.Publisher for tests.
package eventstest

import (
	"context"
	"sync"
)

// Message is a published event as seen by a Recorder.
type Message struct {
	Subject string
	Event   any
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Publish(_ context.Context, subject string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Subject: subject, Event: event})
	return nil
}

func (r *Recorder) Close() {}

// Messages returns the events published on subject, or all when subject is
// empty.
func (r *Recorder) Messages(subject string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, m := range r.messages {
		if subject == "" || m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}
