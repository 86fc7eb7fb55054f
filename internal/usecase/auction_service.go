package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/fanta-auction/internal/domain/auction"
	"github.com/riskibarqy/fanta-auction/internal/domain/history"
	"github.com/riskibarqy/fanta-auction/internal/domain/player"
	"github.com/riskibarqy/fanta-auction/internal/domain/team"
	"github.com/riskibarqy/fanta-auction/internal/platform/logging"
)

const (
	DefaultCountdown  = 30 * time.Second
	DefaultOpeningBid = int64(1)
)

// TxRunner executes fn atomically with respect to the engine's stores.
// A confirm or a history deletion touches budget, availability and the
// ledger together; either all three land or none do.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(context.Context) error) error
}

// NopTxRunner is the runner for the in-memory stores, where the engine
// mutex already serializes every mutation and the only fallible step of
// each compound operation runs first.
type NopTxRunner struct{}

func (NopTxRunner) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// AuctionService is the auction engine: the single entry point for
// starting, bidding, confirming, cancelling and reverting sales. Every
// operation, reads included, synchronizes on one mutex so bid
// validation always sees a consistent auction+budget view and the
// countdown expiry is totally ordered against incoming bids.
type AuctionService struct {
	teamRepo    team.Repository
	playerRepo  player.Repository
	historyRepo history.Repository
	tx          TxRunner
	clock       clockwork.Clock
	countdown   time.Duration
	events      *EventDispatcher
	logger      *logging.Logger

	mu      sync.Mutex
	current auction.Auction
	timer   clockwork.Timer
	// timerStop releases the watcher of a superseded countdown; a
	// stopped clockwork timer never delivers, so without this signal
	// every replaced watcher would park until Close.
	timerStop chan struct{}
	// generation invalidates in-flight timers: it moves under mu on
	// every accepted bid, start, cancel and confirm, and a timer that
	// wakes up with a stale generation does nothing.
	generation uint64

	done      chan struct{}
	closeOnce sync.Once
}

func NewAuctionService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	historyRepo history.Repository,
	tx TxRunner,
	countdown time.Duration,
	clock clockwork.Clock,
	events *EventDispatcher,
	logger *logging.Logger,
) *AuctionService {
	if tx == nil {
		tx = NopTxRunner{}
	}
	if countdown <= 0 {
		countdown = DefaultCountdown
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &AuctionService{
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		tx:          tx,
		clock:       clock,
		countdown:   countdown,
		events:      events,
		logger:      logger,
		current:     auction.Auction{Phase: auction.PhaseIdle},
		done:        make(chan struct{}),
	}
}

// Start opens an auction for an available player. openingBid of zero
// means the default opening bid.
func (s *AuctionService) Start(ctx context.Context, teamID, playerName string, openingBid int64) (auction.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Start")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	playerName = strings.TrimSpace(playerName)
	if teamID == "" {
		return auction.Snapshot{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if playerName == "" {
		return auction.Snapshot{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	if openingBid == 0 {
		openingBid = DefaultOpeningBid
	}
	if openingBid < 0 {
		return auction.Snapshot{}, fmt.Errorf("%w: opening bid must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Phase != auction.PhaseIdle {
		return auction.Snapshot{}, fmt.Errorf("%w: %s is still on the block", ErrAuctionAlreadyActive, s.current.Player)
	}

	bidder, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return auction.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}

	candidate, ok, err := s.playerRepo.GetByName(ctx, playerName)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("get player: %w", err)
	}
	if !ok || !candidate.Available {
		return auction.Snapshot{}, fmt.Errorf("%w: %s", ErrPlayerNotAvailable, playerName)
	}

	if openingBid > bidder.Budget {
		return auction.Snapshot{}, &BudgetError{Needed: openingBid, Remaining: bidder.Budget}
	}

	now := s.clock.Now()
	s.current = auction.Auction{
		Player:      candidate.Name,
		HighestBid:  openingBid,
		LeadingTeam: bidder.ID,
		Deadline:    now.Add(s.countdown),
		Phase:       auction.PhaseActive,
	}
	s.armTimerLocked()

	s.logger.InfoContext(ctx, "auction started",
		"player", candidate.Name,
		"team", bidder.ID,
		"opening_bid", openingBid,
	)

	return s.current.SnapshotAt(now), nil
}

// Bid raises the price by a caller-supplied positive increment and
// resets the countdown to a fresh full window.
func (s *AuctionService) Bid(ctx context.Context, teamID string, increment int64) (auction.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Bid")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return auction.Snapshot{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if increment <= 0 {
		return auction.Snapshot{}, fmt.Errorf("%w: bid increment must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Phase != auction.PhaseActive {
		return auction.Snapshot{}, fmt.Errorf("%w: bids are closed", ErrAuctionNotActive)
	}

	bidder, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return auction.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}

	newBid := s.current.HighestBid + increment
	if newBid > bidder.Budget {
		return auction.Snapshot{}, &BudgetError{Needed: newBid, Remaining: bidder.Budget}
	}

	now := s.clock.Now()
	s.current.HighestBid = newBid
	s.current.LeadingTeam = bidder.ID
	s.current.Deadline = now.Add(s.countdown)
	s.armTimerLocked()

	s.logger.InfoContext(ctx, "bid accepted",
		"player", s.current.Player,
		"team", bidder.ID,
		"bid", newBid,
	)

	return s.current.SnapshotAt(now), nil
}

// Confirm finalizes the pending sale: it deducts the price from the
// winner, retires the player and appends the ledger entry, all in one
// transaction. Only the admin team may confirm.
func (s *AuctionService) Confirm(ctx context.Context, teamID string) (history.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Confirm")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdminLocked(ctx, teamID, "confirm sales"); err != nil {
		return history.Entry{}, err
	}
	if s.current.Phase != auction.PhaseAwaitingConfirmation {
		return history.Entry{}, fmt.Errorf("%w: nothing to confirm", ErrAuctionNotActive)
	}

	sale := history.Entry{
		Player:     s.current.Player,
		WinnerTeam: s.current.LeadingTeam,
		Price:      s.current.HighestBid,
		Timestamp:  s.clock.Now().Unix(),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Budget goes first: it is the only step that can be refused,
		// so a failure leaves the pool and the ledger untouched.
		if _, err := s.teamRepo.AdjustBudget(ctx, sale.WinnerTeam, -sale.Price); err != nil {
			return fmt.Errorf("deduct budget: %w", err)
		}
		if err := s.playerRepo.MarkUnavailable(ctx, sale.Player); err != nil {
			return fmt.Errorf("mark player unavailable: %w", err)
		}
		id, err := s.historyRepo.Append(ctx, sale)
		if err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		sale.ID = id
		return nil
	})
	if err != nil {
		return history.Entry{}, err
	}

	s.resetLocked()

	s.logger.InfoContext(ctx, "sale confirmed",
		"player", sale.Player,
		"winner", sale.WinnerTeam,
		"price", sale.Price,
		"entry_id", sale.ID,
	)
	s.publish(Event{Type: EventSaleConfirmed, Player: sale.Player, Team: sale.WinnerTeam, Price: sale.Price, EntryID: sale.ID})

	return sale, nil
}

// Cancel discards whatever auction is pending and returns to idle. It
// is deliberately not admin-gated: any registered team may walk back a
// live or pending auction; only confirm and history deletion require
// the admin team. Cancelling when nothing is running is a no-op.
func (s *AuctionService) Cancel(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Cancel")
	defer span.End()

	teamID = strings.TrimSpace(teamID)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}

	if s.current.Phase == auction.PhaseIdle {
		return nil
	}

	cancelled := s.current.Player
	s.resetLocked()

	s.logger.InfoContext(ctx, "auction cancelled", "player", cancelled, "team", teamID)

	return nil
}

// DeleteHistory removes a confirmed sale and compensates its effects:
// the price is refunded to the winner and the player becomes available
// again, atomically with the ledger removal. Admin only. Deleting the
// same id twice fails with ErrNotFound the second time and performs no
// second refund.
func (s *AuctionService) DeleteHistory(ctx context.Context, teamID string, entryID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.DeleteHistory")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdminLocked(ctx, teamID, "delete history"); err != nil {
		return err
	}

	entry, ok, err := s.historyRepo.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get history entry: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: history entry %d", ErrNotFound, entryID)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		deleted, err := s.historyRepo.Delete(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("delete history entry: %w", err)
		}
		if !deleted {
			return fmt.Errorf("%w: history entry %d", ErrNotFound, entry.ID)
		}
		if _, err := s.teamRepo.AdjustBudget(ctx, entry.WinnerTeam, entry.Price); err != nil {
			return fmt.Errorf("refund budget: %w", err)
		}
		if err := s.playerRepo.MarkAvailable(ctx, entry.Player); err != nil {
			return fmt.Errorf("restore player: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "sale reverted",
		"player", entry.Player,
		"winner", entry.WinnerTeam,
		"refund", entry.Price,
		"entry_id", entry.ID,
	)
	s.publish(Event{Type: EventSaleReverted, Player: entry.Player, Team: entry.WinnerTeam, Price: entry.Price, EntryID: entry.ID})

	return nil
}

// Status reports the current auction as of now. Always permitted.
func (s *AuctionService) Status(ctx context.Context) auction.Snapshot {
	_, span := startUsecaseSpan(ctx, "usecase.AuctionService.Status")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current.SnapshotAt(s.clock.Now())
}

func (s *AuctionService) ListHistory(ctx context.Context) ([]history.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListHistory")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.historyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return entries, nil
}

func (s *AuctionService) ListAvailablePlayers(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListAvailablePlayers")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.playerRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available players: %w", err)
	}

	return names, nil
}

func (s *AuctionService) ListRemainingBudgets(ctx context.Context) (map[string]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListRemainingBudgets")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	budgets := make(map[string]int64, len(teams))
	for _, item := range teams {
		budgets[item.ID] = item.Budget
	}

	return budgets, nil
}

// Close stops the countdown and releases the timer goroutine. The
// service must not be used after Close.
func (s *AuctionService) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.stopTimerLocked()
		s.mu.Unlock()
	})
}

func (s *AuctionService) requireAdminLocked(ctx context.Context, teamID, action string) error {
	teamID = strings.TrimSpace(teamID)

	caller, ok, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	// Unknown callers get the same answer as known non-admins: the flag
	// is the only thing this error leaks.
	if !ok || !caller.IsAdmin {
		return fmt.Errorf("%w: team %q cannot %s", ErrNotAdmin, teamID, action)
	}

	return nil
}

// resetLocked returns the engine to idle and invalidates any in-flight
// timer.
func (s *AuctionService) resetLocked() {
	s.current = auction.Auction{Phase: auction.PhaseIdle}
	s.generation++
	s.stopTimerLocked()
}

// armTimerLocked replaces the countdown with a fresh full window. The
// cancel-and-replace (rather than reset-after-the-fact) keeps two
// timers from racing to close the auction twice.
func (s *AuctionService) armTimerLocked() {
	s.generation++
	gen := s.generation
	s.stopTimerLocked()

	timer := s.clock.NewTimer(s.countdown)
	stop := make(chan struct{})
	s.timer = timer
	s.timerStop = stop
	go s.awaitDeadline(gen, timer, stop)
}

func (s *AuctionService) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	if !s.timer.Stop() {
		select {
		case <-s.timer.Chan():
		default:
		}
	}
	close(s.timerStop)
	s.timer = nil
	s.timerStop = nil
}

// awaitDeadline closes the auction when the countdown elapses. The
// generation check under the engine mutex resolves the timer-vs-bid
// race: a bid accepted before the expiry is observed moves the
// generation and this wakeup does nothing.
func (s *AuctionService) awaitDeadline(gen uint64, timer clockwork.Timer, stop <-chan struct{}) {
	select {
	case <-timer.Chan():
	case <-stop:
		return
	case <-s.done:
		if !timer.Stop() {
			select {
			case <-timer.Chan():
			default:
			}
		}
		return
	}

	s.mu.Lock()
	if s.generation != gen || s.current.Phase != auction.PhaseActive {
		s.mu.Unlock()
		return
	}
	s.current.Phase = auction.PhaseAwaitingConfirmation
	s.timer = nil
	s.timerStop = nil
	closed := s.current
	s.mu.Unlock()

	s.logger.Info("countdown expired, awaiting confirmation",
		"player", closed.Player,
		"leader", closed.LeadingTeam,
		"bid", closed.HighestBid,
	)
	s.publish(Event{Type: EventAuctionClosed, Player: closed.Player, Team: closed.LeadingTeam, Price: closed.HighestBid})
}

func (s *AuctionService) publish(event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(event)
}
