// internal/game/game.go
//
// A single game session.
// Responsibilities:
//   - Create games in normal (fixed secret) or cheat (adversarial) mode.
//   - Validate guesses against the full dictionary (length, letters, list).
//   - Count rounds for accepted guesses only.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Both modes run through Engine; normal mode just starts it with one word.
//   - The disclosed answer on a loss is the engine's last representative.

package game

import (
	"encoding/hex"
	"errors"
	"fmt"

	"lukechampine.com/frand"

	"github.com/lhcxx/wordle/internal/words"
)

const defaultRows = 6

var ErrGameFinished = errors.New("game finished")

// Options configures New. Zero values pick the defaults.
type Options struct {
	Mode   Mode   // defaults to ModeCheat
	Rows   int    // round limit, defaults to 6
	Answer string // normal mode only; random dictionary word if empty
	Rand   Rand   // tie-break and answer source, entropy-seeded if nil
}

// Game holds the state of one session.
type Game struct {
	ID       string
	Mode     Mode
	Rows     int       // maximum number of accepted guesses
	Round    int       // accepted guesses so far
	Guesses  []string  // accepted guesses, upper-case
	Patterns []Pattern // feedback returned for each guess
	Finished bool
	Won      bool

	dict   *words.Dictionary
	engine *Engine
}

// New constructs a game over dict.
func New(dict *words.Dictionary, opts Options) (*Game, error) {
	if dict == nil || dict.Len() == 0 {
		return nil, words.ErrEmptyDictionary
	}
	if opts.Mode == "" {
		opts.Mode = ModeCheat
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultRows
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}

	var list []string
	switch opts.Mode {
	case ModeCheat:
		list = dict.Words()
	case ModeNormal:
		ans := words.Normalize(opts.Answer)
		if ans == "" {
			ans = dict.Random(opts.Rand)
		} else if err := dict.Validate(ans); err != nil {
			return nil, fmt.Errorf("answer %q: %w", opts.Answer, err)
		}
		list = []string{ans}
	default:
		return nil, fmt.Errorf("game: unknown mode %q", opts.Mode)
	}

	eng, err := NewEngine(list, opts.Rand)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:     randomID(),
		Mode:   opts.Mode,
		Rows:   opts.Rows,
		dict:   dict,
		engine: eng,
	}, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be words.Length letters A–Z after normalization.
//   - Guess must be in the dictionary (not necessarily a live candidate).
//
// Rejected guesses leave the game untouched and do not use up a round.
func (g *Game) ApplyGuess(guess string) (Turn, error) {
	if g.Finished {
		return Turn{}, ErrGameFinished
	}
	guess = words.Normalize(guess)
	if err := g.dict.Validate(guess); err != nil {
		return Turn{}, err
	}

	p, err := g.engine.Submit(guess)
	if err != nil {
		return Turn{}, err
	}
	g.Round++
	g.Guesses = append(g.Guesses, guess)
	g.Patterns = append(g.Patterns, p)

	if p.Won() {
		g.Finished, g.Won = true, true
	} else if g.Round >= g.Rows {
		g.Finished = true
	}

	t := Turn{Guess: guess, Pattern: p, Round: g.Round, Rows: g.Rows, State: g.State()}
	if t.State == StateLost {
		t.Answer = g.Answer()
	}
	return t, nil
}

// State reports the coarse state of the game.
func (g *Game) State() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Answer returns the word to disclose. In cheat mode this is only a word
// consistent with all feedback, chosen at the last guess.
func (g *Game) Answer() string {
	if rep := g.engine.Representative(); rep != "" {
		return rep
	}
	if g.Mode == ModeNormal {
		return g.engine.candidates[0]
	}
	return ""
}

// Remaining returns how many words are still possible secrets.
func (g *Game) Remaining() int { return g.engine.Len() }

// Candidates returns the surviving candidate words.
func (g *Game) Candidates() []string { return g.engine.Candidates() }

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	return hex.EncodeToString(frand.Bytes(8))
}
