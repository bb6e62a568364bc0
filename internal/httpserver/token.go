// internal/httpserver/token.go
//
// Session access tokens. Creating a game returns an HS256 JWT whose "gid"
// claim names the game; every /game/{id} route requires a token for that id,
// so knowing a game id alone is not enough to play someone else's board.
// The token is read from "Authorization: Bearer <token>" or, for websocket
// clients that cannot set headers, the "token" query parameter.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/minesweeper/internal/game"
)

var errTokenMismatch = errors.New("token does not match game")

// ctxSessionKey is the context key type for the resolved *game.Session.
type ctxSessionKey struct{}

// signToken creates an HS256 JWT for a game id.
func (s *Server) signToken(gameID string) (string, error) {
	now := s.opts.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": gameID,
		"iat": now.Unix(),
		"exp": now.Add(s.opts.TokenTTL).Unix(),
	})
	return t.SignedString([]byte(s.opts.JWTSecret))
}

// verifyToken checks signature, expiry and that the token belongs to gameID.
func (s *Server) verifyToken(tokenStr, gameID string) error {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil {
		return err
	}
	if gid, _ := claims["gid"].(string); gid != gameID {
		return errTokenMismatch
	}
	return nil
}

// bearerOrQuery extracts a token from the Authorization header or ?token=.
func bearerOrQuery(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

// requireGameToken resolves {id} to a session and enforces its token.
// Unknown games are 404 before the token is looked at.
func (s *Server) requireGameToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := s.store.Get(r.Context(), id)
		if err != nil {
			writeGameError(w, err)
			return
		}
		tok := bearerOrQuery(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := s.verifyToken(tok, id); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session placed in the context by requireGameToken.
func sessionFrom(r *http.Request) *game.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*game.Session)
	return sess
}
