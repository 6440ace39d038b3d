// internal/cli/play.go
//
// Standalone interactive game ("play" subcommand).
// Commands:
//   - new [cheat|normal|daily]  start a new game (default: configured mode)
//   - help                      show commands
//   - quit | exit               leave
//
// Any other input is taken as a guess. After each valid guess the whole
// board is reprinted with coloured letters.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/lhcxx/wordle/internal/daily"
	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/lineserver"
	"github.com/lhcxx/wordle/internal/render"
	"github.com/lhcxx/wordle/internal/words"
)

// LineReader is the part of *readline.Instance the loops need.
type LineReader interface {
	Readline() (string, error)
}

// PlayOptions configures new games started from the REPL.
type PlayOptions struct {
	Rows      int
	Mode      game.Mode // used by a bare "new"
	DailySalt string
	Seeder    *game.Seeder
	Now       func() time.Time
}

// Player is the REPL state: the dictionary, the current game and its board.
type Player struct {
	dict  *words.Dictionary
	opts  PlayOptions
	out   io.Writer
	g     *game.Game
	board []string
}

func NewPlayer(dict *words.Dictionary, opts PlayOptions, out io.Writer) *Player {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = game.ModeCheat
	}
	return &Player{dict: dict, opts: opts, out: out}
}

// Game returns the current game, nil before the first "new".
func (p *Player) Game() *game.Game { return p.g }

func (p *Player) say(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Player) usage() {
	io.WriteString(p.out, "commands:\n")
	io.WriteString(p.out, "new [cheat|normal|daily] - start a new game\n")
	io.WriteString(p.out, "help - show this help\n")
	io.WriteString(p.out, "quit, exit - leave\n")
	io.WriteString(p.out, "anything else is a 5-letter guess\n")
}

// Start begins a game in the given mode ("daily" is a normal game fixed to
// today's word).
func (p *Player) Start(mode string) error {
	opts := game.Options{Rows: p.opts.Rows, Rand: p.opts.Seeder.Next()}
	title := "Cheating Wordle"
	switch strings.ToLower(mode) {
	case "daily":
		now := p.opts.Now()
		opts.Mode = game.ModeNormal
		opts.Answer = daily.Answer(p.dict, now, p.opts.DailySalt)
		title = "Daily Wordle " + daily.DateKey(now)
	default:
		m, err := game.ParseMode(mode)
		if err != nil {
			return err
		}
		if mode == "" {
			m = p.opts.Mode
		}
		opts.Mode = m
		if m == game.ModeNormal {
			title = "Wordle"
		}
	}

	g, err := game.New(p.dict, opts)
	if err != nil {
		return err
	}
	p.g, p.board = g, nil
	log.Debug().Str("gameId", g.ID).Str("mode", string(g.Mode)).Msg("new game")
	p.say("Welcome to %s!", title)
	p.say("You have %d attempts to guess the word.", g.Rows)
	return nil
}

// Handle runs one input line and reports whether the user asked to quit.
func (p *Player) Handle(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	fields, err := shellquote.Split(line)
	if err != nil || len(fields) == 0 {
		p.say("Error: %v", err)
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true
	case "help":
		p.usage()
		return false
	case "new":
		mode := ""
		if len(fields) > 1 {
			mode = fields[1]
		}
		if err := p.Start(mode); err != nil {
			p.say("Error: %v", err)
		}
		return false
	}

	p.guess(line)
	return false
}

func (p *Player) guess(line string) {
	if p.g == nil {
		p.say("No game running. Type 'new' to start one.")
		return
	}
	turn, err := p.g.ApplyGuess(line)
	if errors.Is(err, game.ErrGameFinished) {
		p.say("This game is over. Type 'new' to play again or 'quit' to exit.")
		return
	}
	if err != nil {
		p.say("%s", lineserver.Message(err))
		return
	}

	p.board = append(p.board, render.Colorize(turn.Guess, turn.Pattern))
	for _, row := range p.board {
		p.say("  %s", row)
	}
	p.say("Round %d/%d", turn.Round, turn.Rows)

	switch turn.State {
	case game.StateWon:
		p.say("Congratulations! You won in %d rounds!", turn.Round)
	case game.StateLost:
		p.say("Game Over! The word was: %s", turn.Answer)
	default:
		return
	}
	p.say("Type 'new' to play again or 'quit' to exit.")
}

// Loop reads lines until quit, EOF, or Ctrl-C on an empty line.
func (p *Player) Loop(in LineReader) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if p.Handle(line) {
			return nil
		}
	}
}

// FilterInput blocks Ctrl-Z in readline.
func FilterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
