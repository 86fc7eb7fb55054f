package player

import "fmt"

// Player is a free agent that can be put up for auction. Availability
// flips off the moment a sale for the player is confirmed and back on
// if that sale is later reverted.
type Player struct {
	Name      string
	Available bool
}

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
