package engine

import (
	"carcassonne/game"
	"carcassonne/objectives"
	"cmp"
	"slices"
)

// recentEvents is how many score events a snapshot carries.
const recentEvents = 5

type ValidMove struct {
	HandIndex int    `json:"tile_idx"`
	Kind      string `json:"tile_type"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Rotation  int    `json:"rotation"`
}

type HandTile struct {
	Kind  string              `json:"tile_type"`
	Edges [4]game.FeatureType `json:"edges"`
}

type PlayerState struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Score       int        `json:"score"`
	HandSize    int        `json:"hand_size"`
	Hand        []HandTile `json:"hand,omitempty"`
	Bot         string     `json:"bot_type,omitempty"`
	Meeples     int        `json:"meeples_available"`
	HasEngineer bool       `json:"has_engineer"`
}

type TileState struct {
	Kind     string              `json:"tile_type"`
	Coord    game.Coord          `json:"coord"`
	Rotation int                 `json:"rotation"`
	Edges    [4]game.FeatureType `json:"edges"`
}

// View is a game as one player may see it.
type View struct {
	ID            string                           `json:"id"`
	State         State                            `json:"phase"`
	Phase         Phase                            `json:"turn_phase"`
	Board         []TileState                      `json:"board"`
	Meeples       []game.Meeple                    `json:"meeples"`
	Players       []PlayerState                    `json:"players"`
	Current       string                           `json:"current_player,omitempty"`
	DeckRemaining int                              `json:"deck_remaining"`
	Turn          int                              `json:"turn"`
	LastPlaced    *game.Coord                      `json:"last_placed,omitempty"`
	RecentScores  []game.ScoreEvent                `json:"recent_scores"`
	Rules         Rules                            `json:"rules"`
	Objectives    map[string]objectives.PlayerView `json:"objectives,omitempty"`
}

// Snapshot returns the game as seen by viewer. Only the viewer's own hand
// and objectives are shown; an empty viewer sees no hand at all.
func (s *Session) Snapshot(viewer string) View {
	v := View{
		ID:            s.ID,
		State:         s.state,
		Phase:         s.phase,
		Meeples:       s.ledger.Placed(),
		Current:       s.Current(),
		DeckRemaining: s.deck.Remaining(),
		Turn:          len(s.history),
		Rules:         s.rules,
	}
	if s.placed != nil {
		c := *s.placed
		v.LastPlaced = &c
	}

	for _, t := range s.board.Tiles() {
		v.Board = append(v.Board, TileState{
			Kind:     t.Archetype.Kind,
			Coord:    t.Coord,
			Rotation: t.Rotation.Degrees(),
			Edges:    t.Edges(),
		})
	}

	events := s.scorer.Log()
	v.RecentScores = events[max(0, len(events)-recentEvents):]

	for _, id := range s.seats {
		p := s.players[id]
		ps := PlayerState{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			HandSize: len(p.Hand),
			Meeples:  s.ledger.Available(id),
		}
		if p.IsBot() {
			ps.Bot = p.Agent.Kind()
		}
		if s.tokens != nil {
			ps.HasEngineer = s.tokens.Has(id)
		}
		if viewer != "" && viewer == id {
			for _, a := range p.Hand {
				ps.Hand = append(ps.Hand, HandTile{Kind: a.Kind, Edges: a.Edges})
			}
		}
		v.Players = append(v.Players, ps)
	}

	if s.objectives != nil {
		v.Objectives = s.objectives.View(viewer)
	}
	return v
}

type Standing struct {
	Player string `json:"player_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Standings ranks players by score. Ties keep seat order.
func (s *Session) Standings() []Standing {
	standings := make([]Standing, 0, len(s.seats))
	for _, id := range s.seats {
		p := s.players[id]
		standings = append(standings, Standing{Player: id, Name: p.Name, Score: p.Score})
	}
	slices.SortStableFunc(standings, func(a, b Standing) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return standings
}
