// Package objectives deals hidden bonus goals and awards them at game end.
package objectives

import (
	"carcassonne/game"
	"slices"

	"golang.org/x/exp/rand"
)

// Snapshot is the end-of-game view the checks read. Ledger is taken before
// end-game scoring returns the remaining meeples.
type Snapshot struct {
	Board   *game.Board
	Ledger  *game.Ledger
	Events  []game.ScoreEvent
	History []game.Record
}

type Objective struct {
	ID          string
	Name        string
	Description string
	Category    string
	Bonus       int
	check       func(s Snapshot, player string) bool
}

var All = []Objective{
	{"road_king", "Road King", "Control a completed road of 5+ tiles", "building", 10, roadKing},
	{"city_lord", "City Lord", "Control a completed city of 4+ tiles", "building", 12, cityLord},
	{"monk_master", "Monk Master", "Complete 2 or more monasteries", "building", 8, monkMaster},
	{"field_baron", "Field Baron", "Have field meeples next to 3+ completed cities at the end", "territory", 10, fieldBaron},
	{"expansionist", "Expansionist", "Place tiles in all 4 quadrants of the board", "territory", 6, expansionist},
	{"meeple_hoarder", "Meeple Hoarder", "End the game with 5+ meeples in supply", "strategy", 8, meepleHoarder},
	{"aggressive", "Conqueror", "Score 2+ completed features shared with opponents", "strategy", 10, conqueror},
	{"diverse", "Renaissance", "Score from at least 3 different feature types", "strategy", 7, renaissance},
	{"late_bloomer", "Late Bloomer", "Score 15+ points in the last 10 turns", "strategy", 9, lateBloomer},
	{"blocker", "Wall Builder", "Place 5+ tiles next to opponent meeples without claiming them", "strategy", 8, wallBuilder},
}

// Status is an objective as shown to its owner.
type Status struct {
	ID          string `json:"obj_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Bonus       int    `json:"bonus_points"`
	Completed   bool   `json:"completed"`
}

// PlayerView hides the objectives of everyone but the viewer.
type PlayerView struct {
	Count      int      `json:"count"`
	Objectives []Status `json:"objectives"`
}

type Manager struct {
	dealt     map[string][]Objective
	completed map[string]map[string]bool
}

func NewManager() *Manager {
	return &Manager{
		dealt:     make(map[string][]Objective),
		completed: make(map[string]map[string]bool),
	}
}

// Deal hands count distinct objectives to every player. Nobody shares an
// objective; late players get fewer once the pool runs dry.
func (m *Manager) Deal(players []string, count int, rng *rand.Rand) {
	pool := slices.Clone(All)
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	for _, p := range players {
		n := min(count, len(pool))
		m.dealt[p] = pool[:n]
		pool = pool[n:]
		m.completed[p] = make(map[string]bool)
	}
}

// Dealt returns the player's objectives.
func (m *Manager) Dealt(player string) []Objective {
	return slices.Clone(m.dealt[player])
}

// Evaluate marks every met objective as completed. Completion is sticky.
func (m *Manager) Evaluate(s Snapshot) {
	for player, objectives := range m.dealt {
		for _, o := range objectives {
			if o.check(s, player) {
				m.completed[player][o.ID] = true
			}
		}
	}
}

// Bonuses returns the bonus points earned per player.
func (m *Manager) Bonuses() map[string]int {
	bonuses := make(map[string]int, len(m.dealt))
	for player, objectives := range m.dealt {
		total := 0
		for _, o := range objectives {
			if m.completed[player][o.ID] {
				total += o.Bonus
			}
		}
		bonuses[player] = total
	}
	return bonuses
}

// View returns every player's objectives as seen by viewer. An empty viewer
// sees no objective at all.
func (m *Manager) View(viewer string) map[string]PlayerView {
	view := make(map[string]PlayerView, len(m.dealt))
	for player, objectives := range m.dealt {
		pv := PlayerView{Count: len(objectives)}
		if player == viewer {
			for _, o := range objectives {
				pv.Objectives = append(pv.Objectives, Status{
					ID:          o.ID,
					Name:        o.Name,
					Description: o.Description,
					Category:    o.Category,
					Bonus:       o.Bonus,
					Completed:   m.completed[player][o.ID],
				})
			}
		}
		view[player] = pv
	}
	return view
}
