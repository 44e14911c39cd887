package notify

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSender) Send(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSender) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerDeliversAndDrainsOnClose(t *testing.T) {
	sender := &recordingSender{}
	w := NewWorker(sender, 8, discardLogger())

	for i := 0; i < 5; i++ {
		w.Dispatch(Event{Type: EventBookingCreated, To: "a@b.c"})
	}
	w.Close()

	assert.Len(t, sender.snapshot(), 5)
}

func TestWorkerCloseIsIdempotent(t *testing.T) {
	w := NewWorker(&recordingSender{}, 1, discardLogger())
	w.Close()
	w.Close()
}

func TestDispatchDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	sender := &blockingSender{block: block}
	w := NewWorker(sender, 1, discardLogger())

	// First event occupies the sender, second fills the queue, the rest
	// must be dropped without blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.Dispatch(Event{Type: EventBookingCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(block)
	w.Close()
}

type blockingSender struct {
	block chan struct{}
}

func (s *blockingSender) Send(e Event) error {
	<-s.block
	return nil
}

func TestRenderSubject(t *testing.T) {
	confirmed := Event{Type: EventBookingCreated, Title: "Practice"}
	assert.Equal(t, "Booking confirmed: Practice", renderSubject(confirmed))

	pending := Event{Type: EventBookingCreated, Title: "Practice", Pending: true}
	assert.Equal(t, "Booking request received: Practice", renderSubject(pending))
}

func TestRenderBody(t *testing.T) {
	e := Event{
		Type:         EventBookingCreated,
		UserName:     "Alex",
		ResourceName: "Main Hall",
		Title:        "Practice",
		StartTime:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		Count:        4,
	}

	body := renderBody(e)
	require.Contains(t, body, "Alex")
	require.Contains(t, body, "Main Hall")
	assert.Contains(t, body, "confirmed")
	assert.Contains(t, body, "4 bookings")
}
