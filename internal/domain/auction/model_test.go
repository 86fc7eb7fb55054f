package auction

import (
	"testing"
	"time"
)

func TestSnapshotAt(t *testing.T) {
	now := time.Date(2026, 8, 29, 21, 0, 0, 0, time.UTC)

	active := Auction{
		Player:      "Rossi",
		HighestBid:  150,
		LeadingTeam: "team-b",
		Deadline:    now.Add(12500 * time.Millisecond),
		Phase:       PhaseActive,
	}

	snap := active.SnapshotAt(now)
	if !snap.Active || snap.AwaitingConfirmation {
		t.Fatalf("unexpected phases: %+v", snap)
	}
	// Whole seconds, floored.
	if snap.TimeLeft != 12 {
		t.Fatalf("expected 12s left, got %d", snap.TimeLeft)
	}

	snap = active.SnapshotAt(now.Add(time.Minute))
	if snap.TimeLeft != 0 {
		t.Fatalf("time left never goes negative, got %d", snap.TimeLeft)
	}

	pending := active
	pending.Phase = PhaseAwaitingConfirmation
	snap = pending.SnapshotAt(now)
	if snap.Active || !snap.AwaitingConfirmation {
		t.Fatalf("unexpected phases: %+v", snap)
	}
	if snap.TimeLeft != 0 {
		t.Fatalf("no countdown while awaiting confirmation, got %d", snap.TimeLeft)
	}

	idle := Auction{Phase: PhaseIdle}
	snap = idle.SnapshotAt(now)
	if snap.Active || snap.AwaitingConfirmation || snap.Player != "" || snap.HighestBid != 0 {
		t.Fatalf("unexpected idle snapshot: %+v", snap)
	}
}
