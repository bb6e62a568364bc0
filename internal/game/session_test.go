package game

import (
	"errors"
	"reflect"
	"testing"
)

// withBoard swaps in a hand-built board so outcomes are predictable.
func withBoard(t *testing.T, s *Session, b *Board) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = b
	s.cfg = b.Config()
}

func TestSessionLoseThenFinished(t *testing.T) {
	s, err := NewSession(DefaultConfig(), SessionOptions{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	withBoard(t, s, mustBoard(t, 3, 3, Pos{0, 0}))

	out, st, err := s.Reveal(0, 0)
	if err != nil || out != Exploded || st != StateLost {
		t.Fatalf("out=%v state=%v err=%v", out, st, err)
	}
	if _, _, err := s.Reveal(2, 2); !errors.Is(err, ErrFinished) {
		t.Fatalf("reveal after loss err=%v want ErrFinished", err)
	}
	if _, _, err := s.ToggleFlag(2, 2); !errors.Is(err, ErrFinished) {
		t.Fatalf("flag after loss err=%v want ErrFinished", err)
	}
	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if s.State() != StatePlaying {
		t.Fatalf("state=%v after restart", s.State())
	}
}

func TestSessionWin(t *testing.T) {
	s, _ := NewSession(DefaultConfig(), SessionOptions{})
	withBoard(t, s, mustBoard(t, 3, 3))
	out, st, err := s.Reveal(1, 1)
	if err != nil || out != Won || st != StateWon {
		t.Fatalf("out=%v state=%v err=%v", out, st, err)
	}
	if snap := s.Snapshot(); snap.State != StateWon {
		t.Fatalf("snapshot state=%v", snap.State)
	}
}

func TestSessionAutoRestart(t *testing.T) {
	s, _ := NewSession(Config{Rows: 3, Cols: 3, Mines: 1}, SessionOptions{AutoRestart: true})
	withBoard(t, s, mustBoard(t, 3, 3, Pos{0, 0}))
	if _, st, _ := s.Reveal(0, 0); st != StateLost {
		t.Fatalf("state=%v want lost", st)
	}
	_, st, err := s.ToggleFlag(1, 1)
	if err != nil {
		t.Fatalf("ToggleFlag after loss: %v", err)
	}
	if st != StatePlaying {
		t.Fatalf("state=%v want playing after auto restart", st)
	}
	snap := s.Snapshot()
	if snap.Flags != 1 || countMines(snap.Cells) != 1 {
		t.Fatalf("fresh board expected, flags=%d mines=%d", snap.Flags, countMines(snap.Cells))
	}
}

func TestSessionFixedSeedRestart(t *testing.T) {
	s, err := NewSession(Config{Rows: 8, Cols: 8, Mines: 10}, SessionOptions{Seed: 1234, FixedSeed: true})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	before := s.Snapshot()
	if err := s.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	after := s.Snapshot()
	if before.Seed != 1234 || after.Seed != 1234 {
		t.Fatalf("seeds %d/%d want 1234", before.Seed, after.Seed)
	}
	if !reflect.DeepEqual(before.Cells, after.Cells) {
		t.Fatal("fixed seed restart changed the layout")
	}
}

func TestSessionOutOfBoundsKeepsState(t *testing.T) {
	s, _ := NewSession(DefaultConfig(), SessionOptions{})
	if _, st, err := s.Reveal(-1, 0); !errors.Is(err, ErrOutOfBounds) || st != StatePlaying {
		t.Fatalf("err=%v state=%v", err, st)
	}
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	if _, err := NewSession(Config{Rows: 2, Cols: 2, Mines: 5}, SessionOptions{}); !errors.Is(err, ErrInvalidMineCount) {
		t.Fatalf("err=%v want ErrInvalidMineCount", err)
	}
}
