package usecase

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
)

type EventType string

const (
	// EventAuctionClosed fires when the countdown expires and the
	// auction moves to the confirmation step.
	EventAuctionClosed EventType = "auction_closed"
	// EventSaleConfirmed fires after the admin confirms a sale.
	EventSaleConfirmed EventType = "sale_confirmed"
	// EventSaleReverted fires after a history entry is deleted and its
	// effects rolled back.
	EventSaleReverted EventType = "sale_reverted"
)

// Event is a post-commit notification. Listeners see state that has
// already been applied; nothing they do can affect the outcome.
type Event struct {
	Type    EventType
	Player  string
	Team    string
	Price   int64
	EntryID int64
}

type Listener func(Event)

// EventDispatcher fans engine events out to listeners on a bounded
// worker pool so slow consumers never hold up the engine's critical
// section.
type EventDispatcher struct {
	pool   *ants.Pool
	logger *logging.Logger

	mu        sync.RWMutex
	listeners []Listener
}

func NewEventDispatcher(workerCount int, logger *logging.Logger) (*EventDispatcher, error) {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workerCount, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create event worker pool: %w", err)
	}

	return &EventDispatcher{pool: pool, logger: logger}, nil
}

func (d *EventDispatcher) Subscribe(fn Listener) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	d.listeners = append(d.listeners, fn)
	d.mu.Unlock()
}

func (d *EventDispatcher) Publish(event Event) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, fn := range listeners {
		fn := fn
		if err := d.pool.Submit(func() { fn(event) }); err != nil {
			d.logger.Warn("drop auction event",
				"event_type", string(event.Type),
				"player", event.Player,
				"error", err,
			)
		}
	}
}

func (d *EventDispatcher) Close() {
	d.pool.Release()
}
