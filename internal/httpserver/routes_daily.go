// internal/httpserver/routes_daily.go
//
// "Board of the day": POST /daily/new starts a session whose mine layout is
// derived from HMAC(salt, today's UTC date), so every player gets the same
// board until midnight UTC. Restarting a daily session replays the same layout.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
)

// mountDaily registers the /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/new", s.handleDailyNew)
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	now := s.opts.Now()
	opts := game.SessionOptions{
		Seed:        daily.Seed(now, s.opts.DailySalt),
		FixedSeed:   true,
		AutoRestart: s.opts.AutoRestart,
	}
	s.startSession(w, r, s.opts.Board, opts, "daily", daily.DateKey(now))
}
