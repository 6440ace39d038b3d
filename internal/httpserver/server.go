// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle backend.
// Responsibilities:
//   - Router + middleware (request IDs, access log, panic recovery, timeouts,
//     JSON, CORS).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/{gameID}.
//   - Daily endpoints: mounted under /daily.
//   - WebSocket line protocol: GET /ws.
//
// Notes:
//   - Every game gets a signed token at creation; guesses and reads need it
//     as "Authorization: Bearer <token>".
//   - All mutations of a game go through store.Update, which applies them
//     one at a time in arrival order.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/render"
	"github.com/lhcxx/wordle/internal/store"
	"github.com/lhcxx/wordle/internal/words"
)

// Options carries the server settings taken from config.
type Options struct {
	Rows         int           // round limit per game
	TokenSecret  string        // HMAC key for game tokens
	TokenTTL     time.Duration // game token lifetime
	ClientOrigin string        // single CORS origin
	DailySalt    string        // salt for the daily word index
	Seeder       *game.Seeder  // per-game RNGs
	Now          func() time.Time
}

// Server bundles router, game store and dictionary.
type Server struct {
	r        *chi.Mux
	store    store.Store
	dict     *words.Dictionary
	opts     Options
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, dict *words.Dictionary, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), store: st, dict: dict, opts: opts}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // per-request logger
	s.r.Use(requestIDLogger)
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // single-origin CORS, answers preflight

	// Long-lived; kept outside the timeout group.
	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordle-go","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","POST /daily/new","GET /ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]int{"words": s.dict.Len()})
		})

		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{gameID}", s.handleGetGame)

		s.mountDaily(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info().Str("addr", addr).Msg("http server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIDLogger adds chi's request id to the request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("reqId", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Mode   string `json:"mode"`   // "normal" | "cheat" (default)
	Answer string `json:"answer"` // optional fixed answer, normal mode (testing)
}
type newGameRes struct {
	GameID string    `json:"gameId"`
	Token  string    `json:"token"`
	Mode   game.Mode `json:"mode"`
	Rows   int       `json:"rows"`
	Date   string    `json:"date,omitempty"`
}

// newGame creates and stores a game, returning its creation response.
func (s *Server) newGame(ctx context.Context, mode game.Mode, answer string) (*newGameRes, error) {
	g, err := game.New(s.dict, game.Options{
		Mode:   mode,
		Rows:   s.opts.Rows,
		Answer: answer,
		Rand:   s.opts.Seeder.Next(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	tok, err := signGameToken(s.opts.TokenSecret, g.ID, s.opts.Now(), s.opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("gameId", g.ID).Str("mode", string(g.Mode)).Msg("game created")
	return &newGameRes{GameID: g.ID, Token: tok, Mode: g.Mode, Rows: g.Rows}, nil
}

// handleNewGame creates a new in-memory game. An empty body means a cheat
// game with default settings.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	}
	if mode == game.ModeCheat && req.Answer != "" {
		http.Error(w, `{"error":"answer_not_allowed"}`, http.StatusBadRequest)
		return
	}
	res, err := s.newGame(r.Context(), mode, req.Answer)
	if err != nil {
		if code, ok := guessErrorCode(err); ok {
			http.Error(w, `{"error":"bad_answer","reason":"`+code+`"}`, http.StatusBadRequest)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("create game")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks  game.Pattern `json:"marks"`
	State  game.State   `json:"state"` // "playing" | "won" | "lost"
	Round  int          `json:"round"`
	Rows   int          `json:"rows"`
	Answer string       `json:"answer,omitempty"` // disclosed on loss
}

// handleGuess applies a guess to a stored game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if !s.authorized(w, r, req.GameID) {
		return
	}

	var turn game.Turn
	err := s.store.Update(r.Context(), req.GameID, func(g *game.Game) error {
		var err error
		turn, err = g.ApplyGuess(req.Guess)
		return err
	})
	if err != nil {
		writeGuessError(w, err)
		return
	}
	hlog.FromRequest(r).Debug().
		Str("gameId", req.GameID).
		Str("guess", turn.Guess).
		Str("marks", render.Symbols(turn.Pattern)).
		Str("state", string(turn.State)).
		Msg("guess")

	_ = json.NewEncoder(w).Encode(guessRes{
		Marks:  turn.Pattern,
		State:  turn.State,
		Round:  turn.Round,
		Rows:   turn.Rows,
		Answer: turn.Answer,
	})
}

// gameStateRes is the public view of a game: never the candidates.
type gameStateRes struct {
	GameID  string         `json:"gameId"`
	Mode    game.Mode      `json:"mode"`
	Rows    int            `json:"rows"`
	Round   int            `json:"round"`
	State   game.State     `json:"state"`
	Guesses []string       `json:"guesses"`
	Marks   []game.Pattern `json:"marks"`
	Answer  string         `json:"answer,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	if !s.authorized(w, r, id) {
		return
	}
	var res gameStateRes
	err := s.store.Update(r.Context(), id, func(g *game.Game) error {
		res = gameStateRes{
			GameID:  g.ID,
			Mode:    g.Mode,
			Rows:    g.Rows,
			Round:   g.Round,
			State:   g.State(),
			Guesses: append([]string{}, g.Guesses...),
			Marks:   append([]game.Pattern{}, g.Patterns...),
		}
		if res.State == game.StateLost {
			res.Answer = g.Answer()
		}
		return nil
	})
	if err != nil {
		writeGuessError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// guessErrorCode maps guess validation errors to API codes.
func guessErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, words.ErrInvalidLength):
		return "invalid_length", true
	case errors.Is(err, words.ErrInvalidCharacters):
		return "invalid_characters", true
	case errors.Is(err, words.ErrUnknownWord):
		return "unknown_word", true
	}
	return "", false
}

func writeGuessError(w http.ResponseWriter, err error) {
	if code, ok := guessErrorCode(err); ok {
		http.Error(w, `{"error":"`+code+`"}`, http.StatusBadRequest)
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	case errors.Is(err, game.ErrGameFinished):
		http.Error(w, `{"error":"game_finished"}`, http.StatusConflict)
	default:
		log.Error().Err(err).Msg("game update")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
	}
}
