// internal/lineserver/session.go
//
// Line protocol adapter around one game.
// Each client line is one guess; each reply is one or more lines. The
// adapter is transport-neutral: the TCP server and the WebSocket endpoint
// both drive it.
//
// Flow:
//   - Greeting(): welcome, number of attempts, prompt.
//   - Handle(line): validation message, or "Round r/N" + result line
//     (+ prompt while the game continues).
//   - The last reply of a finished game carries the won/lost line; the
//     transport then ends the session.

package lineserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/render"
	"github.com/lhcxx/wordle/internal/words"
)

const Prompt = "Enter your guess (5-letter word):"

const (
	msgBadLength  = "Invalid guess! Please enter a 5-letter word."
	msgBadLetters = "Invalid guess! Please enter only letters."
	msgUnknown    = "Invalid guess! Word not in dictionary."
)

// Session drives one game over the line protocol. Not safe for concurrent
// use; the owning connection goroutine feeds it lines in order.
type Session struct {
	g *game.Game
}

func NewSession(g *game.Game) *Session {
	return &Session{g: g}
}

// Game exposes the underlying game (for logging and tests).
func (s *Session) Game() *game.Game { return s.g }

// Greeting returns the lines sent on connect.
func (s *Session) Greeting() []string {
	title := "Welcome to Cheating Wordle Server!"
	if s.g.Mode == game.ModeNormal {
		title = "Welcome to Wordle Server!"
	}
	return []string{
		title,
		fmt.Sprintf("You have %d attempts to guess the word.", s.g.Rows),
		Prompt,
	}
}

// Handle applies one client line and returns the reply. done is true once
// the game is over and the connection should be closed.
func (s *Session) Handle(line string) (reply []string, done bool) {
	turn, err := s.g.ApplyGuess(line)
	if errors.Is(err, game.ErrGameFinished) {
		return nil, true
	}
	if err != nil {
		return []string{Message(err)}, false
	}

	reply = []string{
		fmt.Sprintf("Round %d/%d", turn.Round, turn.Rows),
		render.Wire(turn.Guess, turn.Pattern),
	}
	switch turn.State {
	case game.StateWon:
		return append(reply, fmt.Sprintf("Congratulations! You won in %d rounds!", turn.Round)), true
	case game.StateLost:
		return append(reply, "Game Over! The word was: "+turn.Answer), true
	}
	return append(reply, Prompt), false
}

// Message is the player-facing text for a rejected guess.
func Message(err error) string {
	switch {
	case errors.Is(err, words.ErrInvalidLength):
		return msgBadLength
	case errors.Is(err, words.ErrInvalidCharacters):
		return msgBadLetters
	case errors.Is(err, words.ErrUnknownWord):
		return msgUnknown
	}
	return "Error: " + err.Error()
}

// IsTerminal reports whether a server line ends the session.
func IsTerminal(line string) bool {
	return strings.HasPrefix(line, "Congratulations!") || strings.HasPrefix(line, "Game Over!")
}
