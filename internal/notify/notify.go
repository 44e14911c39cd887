// Package notify delivers fire-and-forget booking emails. Events are queued
// on a buffered channel and sent by a background worker; delivery failures
// are logged and never reach the request path.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type EventType string

const (
	EventBookingCreated EventType = "booking_created"
)

// Event is one outbound notification.
type Event struct {
	Type         EventType
	To           string
	UserName     string
	ResourceName string
	Title        string
	StartTime    time.Time
	EndTime      time.Time
	Count        int
	Pending      bool
}

// Dispatcher accepts events without blocking the caller.
type Dispatcher interface {
	Dispatch(e Event)
}

// Sender performs the actual delivery of one event.
type Sender interface {
	Send(e Event) error
}

// Worker is a Dispatcher backed by a buffered channel and a single send
// goroutine. When the queue is full the event is dropped (and logged)
// rather than blocking the booking response.
type Worker struct {
	sender Sender
	queue  chan Event
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func NewWorker(sender Sender, queueSize int, logger *slog.Logger) *Worker {
	if queueSize < 1 {
		queueSize = 64
	}
	w := &Worker{
		sender: sender,
		queue:  make(chan Event, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) Dispatch(e Event) {
	select {
	case w.queue <- e:
	default:
		w.logger.Warn("notification queue full, dropping event",
			slog.String("type", string(e.Type)), slog.String("to", e.To))
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for e := range w.queue {
		if err := w.sender.Send(e); err != nil {
			w.logger.Error("notification delivery failed",
				slog.String("type", string(e.Type)),
				slog.String("to", e.To),
				slog.Any("error", err))
			continue
		}
		w.logger.Debug("notification sent",
			slog.String("type", string(e.Type)), slog.String("to", e.To))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.queue)
	})
	<-w.done
}

// Subject and body rendering are kept deliberately plain text.
func renderSubject(e Event) string {
	switch e.Type {
	case EventBookingCreated:
		if e.Pending {
			return fmt.Sprintf("Booking request received: %s", e.Title)
		}
		return fmt.Sprintf("Booking confirmed: %s", e.Title)
	}
	return "Notification"
}

func renderBody(e Event) string {
	state := "confirmed"
	if e.Pending {
		state = "received and awaiting approval"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %q for %s has been %s.\nFirst slot: %s to %s.\n",
		e.UserName, e.Title, e.ResourceName, state,
		e.StartTime.Format(time.RFC1123), e.EndTime.Format(time.RFC1123),
	)
	if e.Count > 1 {
		body += fmt.Sprintf("The series contains %d bookings in total.\n", e.Count)
	}
	return body
}
