// internal/config/config.go
//
// Runtime configuration shared by every subcommand.
// Each flag can also be given as the upper-case environment variable of the
// same name (dashes become underscores), e.g. -max-rounds / MAX_ROUNDS.
// Command-line flags win over the environment; main loads .env first.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/namsral/flag"

	"github.com/lhcxx/wordle/internal/game"
)

type Config struct {
	LogLevel     string
	WordsFile    string
	MaxRounds    int
	Mode         string
	LineAddr     string
	HTTPAddr     string
	ServerAddr   string
	DailySalt    string
	TokenSecret  string
	TokenTTL     time.Duration
	ClientOrigin string
	Seed         int64
	SessionIdle  time.Duration
	Output       string
}

// Load parses args (without the program and subcommand names) into c.
func (c *Config) Load(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.LogLevel, "log-level", "info", "zerolog level: trace, debug, info, warn, error")
	fs.StringVar(&c.WordsFile, "words-file", "", "word list (.txt, .json, .yaml, .db); empty uses the built-in list")
	fs.IntVar(&c.MaxRounds, "max-rounds", 6, "guesses allowed per game")
	fs.StringVar(&c.Mode, "mode", string(game.ModeCheat), "game mode: cheat or normal")
	fs.StringVar(&c.LineAddr, "line-addr", ":8889", "TCP line server listen address")
	fs.StringVar(&c.HTTPAddr, "http-addr", ":5175", "HTTP API listen address")
	fs.StringVar(&c.ServerAddr, "server-addr", "localhost:8889", "line server to connect to (client)")
	fs.StringVar(&c.DailySalt, "daily-salt", "local_dev_salt", "salt for the daily word")
	fs.StringVar(&c.TokenSecret, "token-secret", "dev_secret_change_me", "HMAC key for game tokens")
	fs.DurationVar(&c.TokenTTL, "token-ttl", 24*time.Hour, "game token lifetime")
	fs.StringVar(&c.ClientOrigin, "client-origin", "http://localhost:5173", "allowed CORS origin")
	fs.Int64Var(&c.Seed, "seed", 0, "tie-break RNG seed; 0 seeds from entropy")
	fs.DurationVar(&c.SessionIdle, "session-idle", 30*time.Minute, "drop HTTP games idle this long")
	fs.StringVar(&c.Output, "o", "", "words: export the dictionary to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.Validate()
}

// Validate rejects settings no game can run with.
func (c *Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("max-rounds must be at least 1, got %d", c.MaxRounds)
	}
	if _, err := game.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.TokenTTL <= 0 {
		return errors.New("token-ttl must be positive")
	}
	if c.SessionIdle <= 0 {
		return errors.New("session-idle must be positive")
	}
	return nil
}

// GameMode returns the parsed Mode. Only valid after Validate.
func (c *Config) GameMode() game.Mode {
	m, _ := game.ParseMode(c.Mode)
	return m
}
