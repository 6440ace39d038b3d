// internal/cli/client.go
//
// Line protocol client ("client" subcommand): shows what the server says,
// with "Result:" lines re-coloured, and forwards each input line as a
// guess. It returns once the server sends the won/lost line.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/lhcxx/wordle/internal/lineserver"
	"github.com/lhcxx/wordle/internal/render"
)

var ErrServerClosed = errors.New("server closed the connection")

// RunClient drives one game against conn. Input errors (EOF, Ctrl-C) end
// the session quietly.
func RunClient(ctx context.Context, conn io.ReadWriter, in LineReader, out io.Writer) error {
	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		readErr <- sc.Err()
	}()

	inputs := make(chan string)
	inputErr := make(chan error, 1)
	go func() {
		for {
			l, err := in.Readline()
			if err != nil {
				inputErr <- err
				return
			}
			select {
			case inputs <- l:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return err
					}
				default:
				}
				return ErrServerClosed
			}
			showServerLine(out, l)
			if lineserver.IsTerminal(l) {
				return nil
			}
		case l := <-inputs:
			if _, err := fmt.Fprintf(conn, "%s\n", l); err != nil {
				return err
			}
		case err := <-inputErr:
			log.Debug().Err(err).Msg("input closed")
			return nil
		}
	}
}

func showServerLine(out io.Writer, l string) {
	if guess, p, ok := render.ParseWire(l); ok {
		fmt.Fprintf(out, "  %s\n", render.Colorize(guess, p))
		return
	}
	fmt.Fprintln(out, l)
}
