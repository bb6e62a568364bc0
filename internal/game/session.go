// internal/game/session.go
//
// Session wraps a Board with the bookkeeping a caller needs: an id, the seed
// the layout came from, and a playing → won/lost state. It is the only writer
// of its board and serialises callers with a mutex, so HTTP handlers and
// websocket readers can share one session.
//
// Terminal handling:
//   - By default reveals/flags on a finished session fail with ErrFinished
//     until Restart is called.
//   - With AutoRestart the next action regenerates the board in place first,
//     which is how the browser game behaved after its "Game Over!" alert.

package game

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrFinished = errors.New("game finished")

// SessionOptions tweaks how a session seeds and restarts its board.
type SessionOptions struct {
	Seed        int64 // 0 picks a random seed.
	FixedSeed   bool  // Restart reuses Seed instead of drawing a new one (daily boards).
	AutoRestart bool  // Actions on a finished board start a fresh one instead of failing.
}

// Session holds one player's board.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	cfg       Config
	opts      SessionOptions
	seed      int64
	board     *Board
	state     State
	updatedAt time.Time
}

// SessionSnapshot is a consistent, detached copy of a session.
type SessionSnapshot struct {
	ID     string
	Config Config
	Seed   int64
	State  State
	Flags  int
	Cells  [][]Cell
}

// NewSession validates cfg and generates the first board.
func NewSession(cfg Config, opts SessionOptions) (*Session, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	b, err := New(cfg, seed)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		cfg:       cfg,
		opts:      opts,
		seed:      seed,
		board:     b,
		state:     StatePlaying,
		updatedAt: now,
	}, nil
}

// Reveal opens a cell and advances the session state.
// Exploded → lost, Won → won.
func (s *Session) Reveal(row, col int) (Outcome, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return Unchanged, s.state, err
	}
	out, err := s.board.Reveal(row, col)
	if err != nil {
		return out, s.state, err
	}
	switch out {
	case Exploded:
		s.state = StateLost
	case Won:
		s.state = StateWon
	}
	s.updatedAt = time.Now().UTC()
	return out, s.state, nil
}

// ToggleFlag flips a flag and reports whether the board changed.
func (s *Session) ToggleFlag(row, col int) (bool, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return false, s.state, err
	}
	changed, err := s.board.ToggleFlag(row, col)
	if err != nil {
		return false, s.state, err
	}
	s.updatedAt = time.Now().UTC()
	return changed, s.state, nil
}

// Restart discards the current board and generates a new one.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restartLocked()
}

// readyLocked enforces the terminal-state contract before an action.
func (s *Session) readyLocked() error {
	if !s.state.Finished() {
		return nil
	}
	if !s.opts.AutoRestart {
		return ErrFinished
	}
	return s.restartLocked()
}

func (s *Session) restartLocked() error {
	seed := s.seed
	if !s.opts.FixedSeed {
		seed = randomSeed()
	}
	b, err := New(s.cfg, seed)
	if err != nil {
		return err
	}
	s.seed, s.board, s.state = seed, b, StatePlaying
	s.updatedAt = time.Now().UTC()
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdatedAt is the time of the last successful action.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot copies the session under its lock.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		ID:     s.ID,
		Config: s.cfg,
		Seed:   s.seed,
		State:  s.state,
		Flags:  s.board.FlagCount(),
		Cells:  s.board.Snapshot(),
	}
}

// randomSeed draws a non-zero seed from crypto/rand.
func randomSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	if s := int64(binary.BigEndian.Uint64(b[:]) >> 1); s != 0 {
		return s
	}
	return time.Now().UnixNano()
}
