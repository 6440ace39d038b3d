// internal/game/engine.go
//
// Adversarial candidate engine.
// The engine never commits to a secret. It keeps every word still
// consistent with the feedback shown so far and, on each guess, answers with
// the least revealing pattern any of those words would produce.
//
// Notes:
//   - Difficulty is 10 per hit plus 1 per present; the minimum wins.
//   - Ties are broken uniformly with the engine's own Rand.
//   - The surviving set is every previous candidate sharing the chosen
//     pattern, not just the tied ones, so it always contains the
//     representative and is never empty.
//   - An engine with a single candidate is a plain fixed-secret game.

package game

import (
	"errors"

	"github.com/samber/lo"

	"github.com/lhcxx/wordle/internal/words"
)

var ErrEmptyCandidates = errors.New("game: empty candidate set")

// Engine owns one session's candidate set. It is not safe for concurrent
// use; guesses must be applied in submission order.
type Engine struct {
	candidates     []string
	rng            Rand
	representative string
}

// NewEngine starts an engine over a copy of list.
func NewEngine(list []string, rng Rand) (*Engine, error) {
	if len(list) == 0 {
		return nil, ErrEmptyCandidates
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Engine{
		candidates: append([]string(nil), list...),
		rng:        rng,
	}, nil
}

// Submit scores guess against every candidate, picks the least revealing
// pattern and narrows the candidate set to it. guess must already be
// normalized; a malformed guess is rejected without touching the state.
func (e *Engine) Submit(guess string) (Pattern, error) {
	if err := words.CheckShape(guess); err != nil {
		return Pattern{}, err
	}

	patterns := make([]Pattern, len(e.candidates))
	var group []int
	best := -1
	for i, c := range e.candidates {
		p := Evaluate(guess, c)
		patterns[i] = p
		switch d := p.Difficulty(); {
		case best < 0 || d < best:
			best = d
			group = append(group[:0], i)
		case d == best:
			group = append(group, i)
		}
	}

	pick := group[e.rng.Intn(len(group))]
	chosen := patterns[pick]
	e.representative = e.candidates[pick]
	e.candidates = lo.Filter(e.candidates, func(_ string, i int) bool {
		return patterns[i] == chosen
	})
	return chosen, nil
}

// Representative returns the candidate behind the last returned pattern.
// It is empty until the first Submit.
func (e *Engine) Representative() string { return e.representative }

// Candidates returns a copy of the surviving candidate set.
func (e *Engine) Candidates() []string {
	return append([]string(nil), e.candidates...)
}

// Len returns the number of surviving candidates.
func (e *Engine) Len() int { return len(e.candidates) }
