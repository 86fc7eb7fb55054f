package team

import "fmt"

// Team is a bidding club taking part in the auction night.
// Exactly one team in the registry carries the admin capability.
type Team struct {
	ID      string
	Name    string
	Budget  int64
	IsAdmin bool
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Budget < 0 {
		return fmt.Errorf("team budget cannot be negative")
	}

	return nil
}
