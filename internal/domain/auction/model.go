package auction

import "time"

// Phase is the lifecycle state of the single live auction.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseActive               Phase = "active"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
)

// Auction is the singleton record of the currently contested player.
// It exists only while the phase is not idle.
type Auction struct {
	Player      string
	HighestBid  int64
	LeadingTeam string
	Deadline    time.Time
	Phase       Phase
}

// Snapshot is the poll-friendly view of the current auction. TimeLeft
// is whole seconds, floored, never negative.
type Snapshot struct {
	Active               bool
	AwaitingConfirmation bool
	Player               string
	HighestBid           int64
	LeadingTeam          string
	TimeLeft             int64
}

// SnapshotAt renders the auction as seen at now.
func (a Auction) SnapshotAt(now time.Time) Snapshot {
	snap := Snapshot{
		Active:               a.Phase == PhaseActive,
		AwaitingConfirmation: a.Phase == PhaseAwaitingConfirmation,
		Player:               a.Player,
		HighestBid:           a.HighestBid,
		LeadingTeam:          a.LeadingTeam,
	}
	if a.Phase == PhaseActive {
		left := a.Deadline.Sub(now)
		if left > 0 {
			snap.TimeLeft = int64(left.Seconds())
		}
	}

	return snap
}
