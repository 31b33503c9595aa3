package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrProtocol    = errors.New("out of turn")
	ErrInvalidMove = errors.New("invalid move")
)

// Reason tags carried by a declined result.
const (
	ReasonNotFound    = "not_found"
	ReasonProtocol    = "protocol"
	ReasonInvalidMove = "invalid_move"
)

// Declined is returned for every rejected request. A declined request never
// changes the game.
type Declined struct {
	Reason string
	Err    error
}

func (d *Declined) Error() string {
	return fmt.Sprintf("declined (%s): %v", d.Reason, d.Err)
}

func (d *Declined) Unwrap() error {
	return d.Err
}

func decline(kind error, detail string) error {
	return declineWrap(kind, errors.New(detail))
}

func declineWrap(kind error, cause error) error {
	reason := ReasonInvalidMove
	switch kind {
	case ErrNotFound:
		reason = ReasonNotFound
	case ErrProtocol:
		reason = ReasonProtocol
	}
	return &Declined{Reason: reason, Err: fmt.Errorf("%w: %w", kind, cause)}
}

// ReasonOf returns the reason tag of a declined error, or "" for any other
// error.
func ReasonOf(err error) string {
	var d *Declined
	if errors.As(err, &d) {
		return d.Reason
	}
	return ""
}
