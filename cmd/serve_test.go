package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/config"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/store"
)

func TestPruneSessionsDropsIdle(t *testing.T) {
	st := store.NewMemoryStore()
	sess, err := game.NewSession(game.DefaultConfig(), game.SessionOptions{})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := st.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneSessions(ctx, st, 40*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for st.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("idle session was never pruned")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestConfigNotLoadedOnImport(t *testing.T) {
	if cfg != (config.Config{}) {
		t.Fatalf("cfg populated before Execute: %+v", cfg)
	}
}

func TestServeFlagsOverrideEnv(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_TTL", "5m")
	cfg = config.FromEnv()

	c := &cobra.Command{}
	bindServeFlags(c)
	if err := c.Flags().Parse([]string{"--auto-restart", "--session-ttl", "1m"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "9999" {
		t.Fatalf("port=%q want env value 9999", cfg.Port)
	}
	if !cfg.AutoRestart || cfg.SessionTTL != time.Minute {
		t.Fatalf("flags not applied: autoRestart=%v ttl=%s", cfg.AutoRestart, cfg.SessionTTL)
	}
}
