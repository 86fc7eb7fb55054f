package history

import "fmt"

// Entry is a completed, confirmed sale. It is immutable until the admin
// team deletes it, which reverses the budget and availability effects
// it caused.
type Entry struct {
	ID         int64
	Player     string
	WinnerTeam string
	Price      int64
	// Timestamp is unix seconds at confirmation time.
	Timestamp int64
}

func (e Entry) Validate() error {
	if e.Player == "" {
		return fmt.Errorf("history entry player is required")
	}
	if e.WinnerTeam == "" {
		return fmt.Errorf("history entry winner team is required")
	}
	if e.Price <= 0 {
		return fmt.Errorf("history entry price must be positive")
	}

	return nil
}
