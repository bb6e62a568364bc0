package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	s, err := game.NewSession(game.DefaultConfig(), game.SessionOptions{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)

	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Get(ctx, s.ID)
	if err != nil || got != s {
		t.Fatalf("Get: %v %p", err, got)
	}
	if st.Len() != 1 {
		t.Fatalf("Len=%d want 1", st.Len())
	}
	if err := st.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err=%v want ErrNotFound", err)
	}
}

func TestMemoryPrune(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	for i := 0; i < 3; i++ {
		_ = st.Save(ctx, newSession(t))
	}
	if n, _ := st.Prune(ctx, time.Now().Add(-time.Hour)); n != 0 {
		t.Fatalf("pruned %d fresh sessions", n)
	}
	if n, _ := st.Prune(ctx, time.Now().Add(time.Hour)); n != 3 {
		t.Fatalf("pruned %d want 3", n)
	}
	if st.Len() != 0 {
		t.Fatalf("Len=%d want 0", st.Len())
	}
}
