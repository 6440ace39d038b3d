// internal/httpserver/ws.go
//
// WebSocket transport for the line protocol: every text message is one
// line in either direction. The game lives only as long as the socket and
// is never put in the store.

package httpserver

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/lineserver"
)

const (
	wsMaxMessage = 1024
	wsWriteWait  = 10 * time.Second
)

// checkOrigin accepts non-browser clients, same-host pages and the
// configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || (s.opts.ClientOrigin != "" && origin == s.opts.ClientOrigin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// handleWS upgrades the request and plays one game over the socket.
// Optional query: ?mode=normal|cheat.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	mode, err := game.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	}
	g, err := game.New(s.dict, game.Options{Mode: mode, Rows: s.opts.Rows, Rand: s.opts.Seeder.Next()})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create game")
		http.Error(w, `{"error":"create_failed"}`, http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		hlog.FromRequest(r).Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	logger := hlog.FromRequest(r).With().Str("gameId", g.ID).Str("mode", string(g.Mode)).Logger()
	logger.Info().Msg("websocket client connected")
	defer logger.Info().Msg("websocket client disconnected")

	sess := lineserver.NewSession(g)
	if err := wsWriteLines(conn, sess.Greeting()); err != nil {
		return
	}
	for {
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug().Err(err).Msg("websocket read")
			}
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		reply, done := sess.Handle(string(msg))
		if err := wsWriteLines(conn, reply); err != nil {
			logger.Debug().Err(err).Msg("websocket write")
			return
		}
		if done {
			logger.Info().Str("state", string(g.State())).Int("round", g.Round).Msg("game over")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
				time.Now().Add(wsWriteWait))
			return
		}
	}
}

func wsWriteLines(conn *websocket.Conn, lines []string) error {
	for _, l := range lines {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(l)); err != nil {
			return err
		}
	}
	return nil
}
