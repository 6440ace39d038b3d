package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhcxx/wordle/internal/daily"
	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/store"
	"github.com/lhcxx/wordle/internal/words"
)

const testSecret = "test_secret"

var fixedNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, rows int, list ...string) (*Server, store.Store) {
	t.Helper()
	if len(list) == 0 {
		list = []string{"CRANE", "CRATE", "TRACE", "SLATE"}
	}
	d, err := words.New(list)
	require.NoError(t, err)
	st := store.NewMemoryStore()
	return New(st, d, Options{
		Rows:         rows,
		TokenSecret:  testSecret,
		TokenTTL:     time.Hour,
		ClientOrigin: "http://example.test",
		DailySalt:    "salt",
		Seeder:       game.NewSeeder(7),
		Now:          func() time.Time { return fixedNow },
	}), st
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type created struct {
	GameID string `json:"gameId"`
	Token  string `json:"token"`
	Mode   string `json:"mode"`
	Rows   int    `json:"rows"`
	Date   string `json:"date"`
}

type guessed struct {
	Marks  []string `json:"marks"`
	State  string   `json:"state"`
	Round  int      `json:"round"`
	Rows   int      `json:"rows"`
	Answer string   `json:"answer"`
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestDiagnostics(t *testing.T) {
	is := is.New(t)
	s, _ := newTestServer(t, 6)

	rec := do(t, s, http.MethodGet, "/health", "", nil)
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(rec.Header().Get("Content-Type"), "application/json; charset=utf-8")
	is.Equal(decode[map[string]bool](t, rec)["ok"], true)

	rec = do(t, s, http.MethodGet, "/debug/words", "", nil)
	is.Equal(decode[map[string]int](t, rec)["words"], 4)

	rec = do(t, s, http.MethodGet, "/nope", "", nil)
	is.Equal(rec.Code, http.StatusNotFound)
	is.Equal(errorCode(t, rec), "not_found")
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, 6)
	rec := do(t, s, http.MethodOptions, "/game/new", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNormalGameFlow(t *testing.T) {
	is := is.New(t)
	s, _ := newTestServer(t, 6)

	rec := do(t, s, http.MethodPost, "/game/new", "", map[string]string{"mode": "normal", "answer": "crane"})
	is.Equal(rec.Code, http.StatusOK)
	g := decode[created](t, rec)
	is.Equal(g.Mode, "normal")
	is.Equal(g.Rows, 6)
	is.True(g.GameID != "")
	is.True(g.Token != "")

	// Invalid guesses are rejected and do not count.
	for guess, code := range map[string]string{
		"CRA":   "invalid_length",
		"CR4NE": "invalid_characters",
		"ABOUT": "unknown_word",
	} {
		rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: guess})
		is.Equal(rec.Code, http.StatusBadRequest)
		is.Equal(errorCode(t, rec), code)
	}

	rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "trace"})
	is.Equal(rec.Code, http.StatusOK)
	res := decode[guessed](t, rec)
	is.Equal(res.Marks, []string{"miss", "hit", "hit", "present", "hit"})
	is.Equal(res.State, "playing")
	is.Equal(res.Round, 1)
	is.Equal(res.Answer, "")

	rec = do(t, s, http.MethodGet, "/game/"+g.GameID, g.Token, nil)
	is.Equal(rec.Code, http.StatusOK)
	view := decode[map[string]any](t, rec)
	is.Equal(view["round"], float64(1))
	is.Equal(view["guesses"], []any{"TRACE"})
	_, hasAnswer := view["answer"]
	is.True(!hasAnswer)

	rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "CRANE"})
	res = decode[guessed](t, rec)
	is.Equal(res.State, "won")
	is.Equal(res.Round, 2)

	rec = do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "CRANE"})
	is.Equal(rec.Code, http.StatusConflict)
	is.Equal(errorCode(t, rec), "game_finished")
}

func TestLossDisclosesAnswer(t *testing.T) {
	s, _ := newTestServer(t, 2)
	g := decode[created](t, do(t, s, http.MethodPost, "/game/new", "", map[string]string{"mode": "normal", "answer": "CRANE"}))

	do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "SLATE"})
	res := decode[guessed](t, do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "TRACE"}))
	assert.Equal(t, "lost", res.State)
	assert.Equal(t, "CRANE", res.Answer)

	view := decode[map[string]any](t, do(t, s, http.MethodGet, "/game/"+g.GameID, g.Token, nil))
	assert.Equal(t, "lost", view["state"])
	assert.Equal(t, "CRANE", view["answer"])
}

func TestCheatGame(t *testing.T) {
	is := is.New(t)
	s, _ := newTestServer(t, 6)

	rec := do(t, s, http.MethodPost, "/game/new", "", nil)
	is.Equal(rec.Code, http.StatusOK)
	g := decode[created](t, rec)
	is.Equal(g.Mode, "cheat")

	// SLATE gives CRATE the cheapest pattern, so the game dodges to it.
	res := decode[guessed](t, do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: "CRATE"}))
	is.Equal(res.State, "playing")
	is.Equal(res.Marks, []string{"miss", "miss", "hit", "hit", "hit"})
}

func TestNewGameRejects(t *testing.T) {
	s, _ := newTestServer(t, 6)
	cases := []struct {
		name string
		body map[string]string
		code string
	}{
		{"unknown mode", map[string]string{"mode": "hard"}, "bad_mode"},
		{"answer in cheat mode", map[string]string{"mode": "cheat", "answer": "CRANE"}, "answer_not_allowed"},
		{"answer not in list", map[string]string{"mode": "normal", "answer": "ABOUT"}, "bad_answer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/game/new", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}
}

func TestTokens(t *testing.T) {
	is := is.New(t)
	s, st := newTestServer(t, 6)
	a := decode[created](t, do(t, s, http.MethodPost, "/game/new", "", map[string]string{"mode": "normal", "answer": "CRANE"}))
	b := decode[created](t, do(t, s, http.MethodPost, "/game/new", "", map[string]string{"mode": "normal", "answer": "CRANE"}))

	rec := do(t, s, http.MethodPost, "/game/guess", "", guessReq{GameID: a.GameID, Guess: "CRANE"})
	is.Equal(rec.Code, http.StatusUnauthorized)

	// b's token cannot drive a's game.
	rec = do(t, s, http.MethodPost, "/game/guess", b.Token, guessReq{GameID: a.GameID, Guess: "CRANE"})
	is.Equal(rec.Code, http.StatusUnauthorized)
	is.Equal(errorCode(t, rec), "invalid_token")

	expired, err := signGameToken(testSecret, a.GameID, fixedNow.Add(-2*time.Hour), time.Hour)
	is.NoErr(err)
	rec = do(t, s, http.MethodPost, "/game/guess", expired, guessReq{GameID: a.GameID, Guess: "CRANE"})
	is.Equal(rec.Code, http.StatusUnauthorized)

	forged, err := signGameToken("other_secret", a.GameID, fixedNow, time.Hour)
	is.NoErr(err)
	rec = do(t, s, http.MethodGet, "/game/"+a.GameID, forged, nil)
	is.Equal(rec.Code, http.StatusUnauthorized)

	// A valid token for a game that no longer exists.
	is.NoErr(st.Delete(context.Background(), a.GameID))
	rec = do(t, s, http.MethodPost, "/game/guess", a.Token, guessReq{GameID: a.GameID, Guess: "CRANE"})
	is.Equal(rec.Code, http.StatusNotFound)
}

func TestDaily(t *testing.T) {
	is := is.New(t)
	s, _ := newTestServer(t, 6)

	info := decode[map[string]string](t, do(t, s, http.MethodGet, "/daily", "", nil))
	is.Equal(info["date"], "2024-03-14")

	rec := do(t, s, http.MethodPost, "/daily/new", "", nil)
	is.Equal(rec.Code, http.StatusOK)
	g := decode[created](t, rec)
	is.Equal(g.Mode, "normal")
	is.Equal(g.Date, "2024-03-14")

	answer := daily.Answer(s.dict, fixedNow, "salt")
	res := decode[guessed](t, do(t, s, http.MethodPost, "/game/guess", g.Token, guessReq{GameID: g.GameID, Guess: answer}))
	is.Equal(res.State, "won")
	is.Equal(res.Round, 1)
}

func TestWebSocket(t *testing.T) {
	s, _ := newTestServer(t, 6, "CRANE")
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?mode=normal"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	read := func() string {
		t.Helper()
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		return string(msg)
	}
	assert.Equal(t, "Welcome to Wordle Server!", read())
	assert.Equal(t, "You have 6 attempts to guess the word.", read())
	read() // prompt

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("CRANES")))
	assert.Equal(t, "Invalid guess! Please enter a 5-letter word.", read())

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("crane")))
	assert.Equal(t, "Round 1/6", read())
	assert.Equal(t, "Result: HC HR HA HN HE", read())
	assert.Equal(t, "Congratulations! You won in 1 rounds!", read())

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestWebSocketRejectsBadMode(t *testing.T) {
	s, _ := newTestServer(t, 6)
	rec := do(t, s, http.MethodGet, "/ws?mode=daily", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
