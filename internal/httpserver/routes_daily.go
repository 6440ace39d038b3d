// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new → start a normal game whose answer is today's word
//   - GET  /daily     → today's date key
//
// Daily games are ordinary normal-mode games once created; guesses go
// through POST /game/guess with the returned token. Word selection is
// deterministic on date + salt, so every player gets the same word.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/lhcxx/wordle/internal/daily"
	"github.com/lhcxx/wordle/internal/game"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", s.handleDailyNew)
	})
}

// dailyInfoRes is returned by GET /daily.
type dailyInfoRes struct {
	Date string `json:"date"`
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(dailyInfoRes{Date: daily.DateKey(s.opts.Now())})
}

// handleDailyNew creates a normal game fixed to today's word.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	now := s.opts.Now()
	answer := daily.Answer(s.dict, now, s.opts.DailySalt)
	res, err := s.newGame(r.Context(), game.ModeNormal, answer)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create daily game")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}
	res.Date = daily.DateKey(now)
	_ = json.NewEncoder(w).Encode(res)
}
