// internal/httpserver/token.go
//
// Game tokens: HS256 JWTs whose subject is the game ID. A token is issued
// by /game/new (and /daily/new) and must accompany every request that
// touches that game.

package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
)

var errTokenSubject = errors.New("token does not match game")

// signGameToken issues a token for gameID valid for ttl from now.
func signGameToken(secret, gameID string, now time.Time, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return t.SignedString([]byte(secret))
}

// verifyGameToken checks signature, expiry (against now) and that the
// token was issued for gameID.
func verifyGameToken(secret, tok, gameID string, now func() time.Time) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(now))
	if err != nil {
		return err
	}
	if claims.Subject == "" || claims.Subject != gameID {
		return errTokenSubject
	}
	return nil
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// authorized writes a 401 and returns false unless the request carries a
// valid token for gameID.
func (s *Server) authorized(w http.ResponseWriter, r *http.Request, gameID string) bool {
	tok := bearerToken(r)
	if tok == "" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return false
	}
	if err := verifyGameToken(s.opts.TokenSecret, tok, gameID, s.opts.Now); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("gameId", gameID).Msg("token rejected")
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
		return false
	}
	return true
}
