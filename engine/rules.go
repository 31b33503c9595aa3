package engine

import (
	"carcassonne/meta"
	"fmt"
)

// Rules are the options a game is created with.
type Rules struct {
	Players    int  `json:"num_players" mapstructure:"players"`
	HandSize   int  `json:"hand_size" mapstructure:"hand_size"`
	Engineer   bool `json:"engineer" mapstructure:"engineer"`
	Objectives bool `json:"objectives" mapstructure:"objectives"`
}

func DefaultRules() Rules {
	return Rules{
		Players:    meta.MIN_PLAYERS,
		HandSize:   meta.HAND_SIZE,
		Engineer:   true,
		Objectives: true,
	}
}

func (r Rules) Validate() error {
	if r.Players < meta.MIN_PLAYERS || r.Players > meta.MAX_PLAYERS {
		return fmt.Errorf("player count %d outside [%d, %d]", r.Players, meta.MIN_PLAYERS, meta.MAX_PLAYERS)
	}
	if r.HandSize < 1 || r.HandSize > meta.MAX_HAND_SIZE {
		return fmt.Errorf("hand size %d outside [1, %d]", r.HandSize, meta.MAX_HAND_SIZE)
	}
	return nil
}
