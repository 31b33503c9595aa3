package game

// Action names what a turn record describes.
type Action string

const (
	ActionPlace    Action = "place"
	ActionEngineer Action = "engineer"
	ActionPass     Action = "pass"
)

// Record is one entry of a game's move history. Rotation is in degrees.
type Record struct {
	Player   string `json:"player_id"`
	Action   Action `json:"action"`
	Kind     string `json:"tile_type,omitempty"`
	Coord    Coord  `json:"coord"`
	Rotation int    `json:"rotation"`
	Turn     int    `json:"turn"`
}
