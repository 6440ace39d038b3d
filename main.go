package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lhcxx/wordle/internal/cli"
	"github.com/lhcxx/wordle/internal/config"
	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/httpserver"
	"github.com/lhcxx/wordle/internal/lineserver"
	"github.com/lhcxx/wordle/internal/store"
	"github.com/lhcxx/wordle/internal/words"
)

func usage(w io.Writer) {
	io.WriteString(w, "usage: wordle <command> [flags]\n")
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "play - play in this terminal\n")
	io.WriteString(w, "serve - run the TCP line server and the HTTP API\n")
	io.WriteString(w, "client - play against a line server (-server-addr)\n")
	io.WriteString(w, "words [-o path] - show the dictionary size or export it\n")
	io.WriteString(w, "run 'wordle <command> -h' for flags\n")
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	var cfg config.Config
	if err := cfg.Load(cmd, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.LogLevel, cmd == "play" || cmd == "client")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "play":
		err = runPlay(cfg)
	case "serve":
		err = runServe(ctx, cfg)
	case "client":
		err = runClient(ctx, cfg)
	case "words":
		err = runWords(cfg)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("exited with error")
	}
}

func setupLogging(level string, console bool) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newReadline(prompt string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:              prompt,
		EOFPrompt:           "exit",
		InterruptPrompt:     "^C",
		HistorySearchFold:   true,
		FuncFilterInputRune: cli.FilterInput,
	})
}

func runPlay(cfg config.Config) error {
	dict, err := words.LoadOrDefault(cfg.WordsFile)
	if err != nil {
		return err
	}
	rl, err := newReadline("\033[32mwordle>\033[0m ")
	if err != nil {
		return err
	}
	defer rl.Close()

	p := cli.NewPlayer(dict, cli.PlayOptions{
		Rows:      cfg.MaxRounds,
		Mode:      cfg.GameMode(),
		DailySalt: cfg.DailySalt,
		Seeder:    game.NewSeeder(cfg.Seed),
	}, rl.Stdout())
	if err := p.Start(cfg.Mode); err != nil {
		return err
	}
	io.WriteString(rl.Stdout(), "Type 'help' for commands.\n")
	return p.Loop(rl)
}

func runServe(ctx context.Context, cfg config.Config) error {
	dict, err := words.LoadOrDefault(cfg.WordsFile)
	if err != nil {
		return err
	}
	log.Info().Int("words", dict.Len()).Str("mode", cfg.Mode).Int("rounds", cfg.MaxRounds).Msg("starting wordle server")

	seeder := game.NewSeeder(cfg.Seed)
	mem := store.NewMemoryStore()
	api := httpserver.New(mem, dict, httpserver.Options{
		Rows:         cfg.MaxRounds,
		TokenSecret:  cfg.TokenSecret,
		TokenTTL:     cfg.TokenTTL,
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
		Seeder:       seeder,
	})
	lines := lineserver.New(func() (*game.Game, error) {
		return game.New(dict, game.Options{Mode: cfg.GameMode(), Rows: cfg.MaxRounds, Rand: seeder.Next()})
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return lines.ListenAndServe(ctx, cfg.LineAddr) })
	g.Go(func() error { return api.Run(ctx, cfg.HTTPAddr) })
	g.Go(func() error {
		sweep(ctx, mem, cfg.SessionIdle)
		return nil
	})
	err = g.Wait()
	log.Info().Msg("server stopped")
	return err
}

// sweep drops idle HTTP games until ctx is done.
func sweep(ctx context.Context, st store.Store, idle time.Duration) {
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(ctx, idle); n > 0 {
				log.Info().Int("removed", n).Msg("swept idle games")
			}
		}
	}
}

func runClient(ctx context.Context, cfg config.Config) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.ServerAddr)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Debug().Str("addr", cfg.ServerAddr).Msg("connected")

	rl, err := newReadline("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	err = cli.RunClient(ctx, conn, rl, rl.Stdout())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runWords(cfg config.Config) error {
	dict, err := words.LoadOrDefault(cfg.WordsFile)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		fmt.Printf("%d words\n", dict.Len())
		return nil
	}
	if err := words.Save(cfg.Output, dict); err != nil {
		return err
	}
	log.Info().Int("words", dict.Len()).Str("path", cfg.Output).Msg("dictionary exported")
	return nil
}
