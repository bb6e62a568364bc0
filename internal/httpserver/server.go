// internal/httpserver/server.go
//
// HTTP server wiring for the Minesweeper backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints: POST /game/new, then per-game routes under /game/{id}
//     guarded by the session token handed out at creation.
//   - Daily board: POST /daily/new.
//   - Live play over a websocket: GET /game/{id}/ws.
//
// Notes:
//   - The server is the input/view collaborator of the engine: it turns
//     requests into (row, col) calls and answers with view.Board snapshots.
//   - Each session serialises its own board; handlers never touch a Board directly.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/store"
	"github.com/robalobadob/minesweeper/internal/view"
)

// Options carries the server's tunables. Zero values fall back to defaults.
type Options struct {
	Board        game.Config // board used when a request does not specify one
	AutoRestart  bool        // default for new sessions
	JWTSecret    string
	ClientOrigin string
	DailySalt    string
	TokenTTL     time.Duration
	Now          func() time.Time
}

func (o *Options) setDefaults() {
	if o.Board == (game.Config{}) {
		o.Board = game.DefaultConfig()
	}
	if o.JWTSecret == "" {
		o.JWTSecret = "dev_secret_change_me"
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.DailySalt == "" {
		o.DailySalt = "local_dev_salt"
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Server bundles router, session store and metrics.
type Server struct {
	r       *chi.Mux
	store   store.Store
	opts    Options
	metrics *metrics
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	opts.setDefaults()
	s := &Server{r: chi.NewRouter(), store: st, opts: opts, metrics: newMetrics(st)}

	// --- middleware ---
	s.r.Use(chimw.RequestID)   // add X-Request-ID
	s.r.Use(chimw.RealIP)      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)     // zerolog access log
	s.r.Use(chimw.Recoverer)   // recover from panics
	s.r.Use(jsonContentType)   // default JSON responses
	s.r.Use(s.corsFromOptions) // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"minesweeper-go","endpoints":["/health","/metrics","POST /game/new","POST /daily/new","/game/{id}/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	// Request/response routes get a bounded handler time; the websocket does not.
	timeout := chimw.Timeout(10 * time.Second)
	s.r.With(timeout).Post("/game/new", s.handleNewGame)
	s.mountDaily(s.r.With(timeout))
	s.r.Route("/game/{id}", func(r chi.Router) {
		r.Use(s.requireGameToken)
		r.Get("/ws", s.handleWS)
		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Get("/", s.handleGetGame)
			r.Post("/reveal", s.handleReveal)
			r.Post("/flag", s.handleFlag)
			r.Post("/restart", s.handleRestart)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return hs.Shutdown(shutdownCtx)
	}
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

// corsFromOptions enables credentialed CORS for the configured client origin.
func (s *Server) corsFromOptions(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// maxBoardSide caps client-chosen boards; every move answers with the whole grid.
const maxBoardSide = 100

// newGameReq/Res payloads for POST /game/new. Omitted fields use the server defaults.
type newGameReq struct {
	Rows        *int  `json:"rows"`
	Cols        *int  `json:"cols"`
	Mines       *int  `json:"mines"`
	Seed        int64 `json:"seed"` // optional fixed layout (testing/replays)
	AutoRestart *bool `json:"autoRestart"`
}
type gameRes struct {
	GameID string     `json:"gameId"`
	Token  string     `json:"token,omitempty"`
	Date   string     `json:"date,omitempty"`
	Board  view.Board `json:"board"`
}

// handleNewGame creates a session, stores it and hands back its access token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	cfg := s.opts.Board
	if req.Rows != nil {
		cfg.Rows = *req.Rows
	}
	if req.Cols != nil {
		cfg.Cols = *req.Cols
	}
	if req.Mines != nil {
		cfg.Mines = *req.Mines
	}
	if cfg.Rows > maxBoardSide || cfg.Cols > maxBoardSide {
		writeError(w, http.StatusBadRequest, "invalid_dimensions")
		return
	}
	opts := game.SessionOptions{Seed: req.Seed, AutoRestart: s.opts.AutoRestart}
	if req.AutoRestart != nil {
		opts.AutoRestart = *req.AutoRestart
	}
	s.startSession(w, r, cfg, opts, "custom", "")
}

// startSession is shared by /game/new and /daily/new.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, cfg game.Config, opts game.SessionOptions, kind, date string) {
	sess, err := game.NewSession(cfg, opts)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, err := s.signToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Str("gameId", sess.ID).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.metrics.gamesStarted.WithLabelValues(kind).Inc()
	log.Info().Str("gameId", sess.ID).Str("kind", kind).
		Int("rows", cfg.Rows).Int("cols", cfg.Cols).Int("mines", cfg.Mines).
		Msg("game started")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(gameRes{
		GameID: sess.ID,
		Token:  tok,
		Date:   date,
		Board:  view.FromSnapshot(sess.Snapshot()),
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Board: view.FromSnapshot(sess.Snapshot())})
}

// moveReq is the body of reveal/flag calls.
type moveReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type revealRes struct {
	Outcome game.Outcome `json:"outcome"`
	State   game.State   `json:"state"`
	Board   view.Board   `json:"board"`
}

type flagRes struct {
	Changed bool       `json:"changed"`
	State   game.State `json:"state"`
	Board   view.Board `json:"board"`
}

func decodeMove(w http.ResponseWriter, r *http.Request) (row, col int, ok bool) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return 0, 0, false
	}
	return *req.Row, *req.Col, true
}

// handleReveal applies a reveal and reports the outcome.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	row, col, ok := decodeMove(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r)
	res, err := s.reveal(sess, row, col)
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) reveal(sess *game.Session, row, col int) (revealRes, error) {
	out, st, err := sess.Reveal(row, col)
	if err != nil {
		return revealRes{}, err
	}
	s.metrics.reveals.WithLabelValues(out.String()).Inc()
	if st.Finished() && (out == game.Exploded || out == game.Won) {
		log.Info().Str("gameId", sess.ID).Str("state", string(st)).Msg("game finished")
	}
	return revealRes{Outcome: out, State: st, Board: view.FromSnapshot(sess.Snapshot())}, nil
}

// handleFlag toggles a flag.
func (s *Server) handleFlag(w http.ResponseWriter, r *http.Request) {
	row, col, ok := decodeMove(w, r)
	if !ok {
		return
	}
	res, err := s.flag(sessionFrom(r), row, col)
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) flag(sess *game.Session, row, col int) (flagRes, error) {
	changed, st, err := sess.ToggleFlag(row, col)
	if err != nil {
		return flagRes{}, err
	}
	if changed {
		s.metrics.flags.Inc()
	}
	return flagRes{Changed: changed, State: st, Board: view.FromSnapshot(sess.Snapshot())}, nil
}

// handleRestart replaces the session's board with a fresh one.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Restart(); err != nil {
		writeGameError(w, err)
		return
	}
	s.metrics.restarts.Inc()
	_ = json.NewEncoder(w).Encode(gameRes{GameID: sess.ID, Board: view.FromSnapshot(sess.Snapshot())})
}

// ------------------------------ errors -------------------------------------

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// errorCode maps engine/store errors to an HTTP status and a stable code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest, "out_of_bounds"
	case errors.Is(err, game.ErrInvalidDimensions):
		return http.StatusBadRequest, "invalid_dimensions"
	case errors.Is(err, game.ErrInvalidMineCount):
		return http.StatusBadRequest, "invalid_mine_count"
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "internal"
}

func writeGameError(w http.ResponseWriter, err error) {
	status, code := errorCode(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeError(w, status, code)
}
