package lineserver

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"net"
	"sync"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/lhcxx/wordle/internal/game"
)

// maxLine bounds a single client line.
const maxLine = 1024

// Server accepts TCP clients and plays one game per connection.
type Server struct {
	// NewGame creates the game for a freshly accepted client.
	NewGame func() (*game.Game, error)

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

func New(newGame func() (*game.Game, error)) *Server {
	return &Server{NewGame: newGame, conns: make(map[net.Conn]struct{})}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("line server listening")
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln, one goroutine each. When ctx is done the
// listener and every open connection are closed, and Serve returns nil once
// all handlers have exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
		s.closeAll()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			log.Warn().Err(err).Msg("accept")
			continue
		}
		s.track(conn, true)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.track(conn, false)
			s.handle(conn)
		}()
	}
}

func (s *Server) track(c net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	switch {
	case add && s.closed:
		c.Close()
	case add:
		s.conns[c] = struct{}{}
	default:
		delete(s.conns, c)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.conns {
		c.Close()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	clientID := hex.EncodeToString(frand.Bytes(8))
	logger := log.With().Str("client", clientID).Str("remote", conn.RemoteAddr().String()).Logger()

	g, err := s.NewGame()
	if err != nil {
		logger.Error().Err(err).Msg("create game")
		return
	}
	logger.Info().Str("gameId", g.ID).Str("mode", string(g.Mode)).Msg("client connected")
	defer logger.Info().Str("gameId", g.ID).Msg("client disconnected")

	sess := NewSession(g)
	w := bufio.NewWriter(conn)
	if err := writeLines(w, sess.Greeting()); err != nil {
		return
	}

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, maxLine), maxLine)
	for sc.Scan() {
		reply, done := sess.Handle(sc.Text())
		if err := writeLines(w, reply); err != nil {
			logger.Debug().Err(err).Msg("write")
			return
		}
		if done {
			logger.Info().Str("state", string(g.State())).Int("round", g.Round).Msg("game over")
			return
		}
	}
	if err := sc.Err(); err != nil {
		logger.Debug().Err(err).Msg("read")
	}
}

// writeLines writes each line with a trailing newline and flushes.
func writeLines(w *bufio.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
