// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark: per-letter result of a guess (hit/present/miss).
//   - Pattern: the feedback for a whole guess, one Mark per position.
//   - Mode, State, Turn: session-level values returned to transports.

package game

import (
	"fmt"

	"github.com/lhcxx/wordle/internal/words"
)

// Mark represents the evaluation result for a single letter in a guess.
// The zero value is an unset marker used while scoring; it never appears
// in a returned Pattern.
type Mark uint8

const (
	markUnset Mark = iota
	MarkMiss
	MarkPresent
	MarkHit
)

func (m Mark) String() string {
	switch m {
	case MarkHit:
		return "hit"
	case MarkPresent:
		return "present"
	case MarkMiss:
		return "miss"
	}
	return "unset"
}

// MarshalText encodes a Mark as "hit", "present" or "miss".
func (m Mark) MarshalText() ([]byte, error) {
	if m == markUnset {
		return nil, fmt.Errorf("game: unset mark")
	}
	return []byte(m.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (m *Mark) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hit":
		*m = MarkHit
	case "present":
		*m = MarkPresent
	case "miss":
		*m = MarkMiss
	default:
		return fmt.Errorf("game: unknown mark %q", b)
	}
	return nil
}

// Pattern is the feedback for one guess. Two candidates are equivalent for
// a guess iff they produce the same Pattern.
type Pattern [words.Length]Mark

// Difficulty scores how much a pattern reveals: 10 per hit, 1 per present.
func (p Pattern) Difficulty() int {
	score := 0
	for _, m := range p {
		switch m {
		case MarkHit:
			score += 10
		case MarkPresent:
			score++
		}
	}
	return score
}

// Won reports whether every position is a hit.
func (p Pattern) Won() bool {
	for _, m := range p {
		if m != MarkHit {
			return false
		}
	}
	return true
}

// Mode selects how a game picks its feedback.
type Mode string

const (
	ModeNormal Mode = "normal" // one secret fixed at start
	ModeCheat  Mode = "cheat"  // adversarial candidate set
)

// ParseMode maps user input to a Mode; the empty string means cheat.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeCheat:
		return ModeCheat, nil
	case ModeNormal:
		return ModeNormal, nil
	}
	return "", fmt.Errorf("game: unknown mode %q", s)
}

// State is the coarse lifecycle of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Turn is everything a transport needs to render one accepted guess.
type Turn struct {
	Guess   string
	Pattern Pattern
	Round   int
	Rows    int
	State   State
	Answer  string // set only when State is StateLost
}
