package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
)

func TestEventDispatcher_FanOut(t *testing.T) {
	dispatcher, err := NewEventDispatcher(2, logging.NewNop())
	if err != nil {
		t.Fatalf("build dispatcher: %v", err)
	}
	t.Cleanup(dispatcher.Close)

	var mu sync.Mutex
	received := make([]Event, 0, 2)
	done := make(chan struct{}, 2)

	listener := func(event Event) {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		done <- struct{}{}
	}
	dispatcher.Subscribe(listener)
	dispatcher.Subscribe(listener)
	dispatcher.Subscribe(nil)

	want := Event{Type: EventSaleConfirmed, Player: "Rossi", Team: "team-a", Price: 350, EntryID: 1}
	dispatcher.Publish(want)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("listener %d never received the event", i)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(received))
	}
	for _, got := range received {
		if got != want {
			t.Fatalf("unexpected event: %+v", got)
		}
	}
}

func TestEventDispatcher_PublishAfterCloseDoesNotPanic(t *testing.T) {
	dispatcher, err := NewEventDispatcher(1, logging.NewNop())
	if err != nil {
		t.Fatalf("build dispatcher: %v", err)
	}

	dispatcher.Subscribe(func(Event) {})
	dispatcher.Close()

	// The pool is gone; the publish is dropped with a warning.
	dispatcher.Publish(Event{Type: EventAuctionClosed, Player: "Rossi"})
}

func TestEventDispatcher_MinimumOneWorker(t *testing.T) {
	dispatcher, err := NewEventDispatcher(0, nil)
	if err != nil {
		t.Fatalf("build dispatcher with zero workers: %v", err)
	}
	t.Cleanup(dispatcher.Close)

	done := make(chan Event, 1)
	dispatcher.Subscribe(func(event Event) { done <- event })
	dispatcher.Publish(Event{Type: EventSaleReverted, EntryID: 7})

	select {
	case got := <-done:
		if got.EntryID != 7 {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event never delivered")
	}
}
