package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "BOARD_ROWS", "BOARD_COLS", "BOARD_MINES", "AUTO_RESTART", "SESSION_TTL"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "5175" || c.LogLevel != zerolog.InfoLevel {
		t.Fatalf("port=%s level=%s", c.Port, c.LogLevel)
	}
	if c.Board.Rows != 6 || c.Board.Cols != 6 || c.Board.Mines != 6 {
		t.Fatalf("board=%+v want 6x6/6", c.Board)
	}
	if c.AutoRestart || c.SessionTTL != 2*time.Hour {
		t.Fatalf("autoRestart=%v ttl=%s", c.AutoRestart, c.SessionTTL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BOARD_ROWS", "9")
	t.Setenv("BOARD_COLS", "12")
	t.Setenv("BOARD_MINES", "20")
	t.Setenv("AUTO_RESTART", "true")
	t.Setenv("SESSION_TTL", "15m")

	c := FromEnv()
	if c.Port != "9000" || c.LogLevel != zerolog.DebugLevel {
		t.Fatalf("port=%s level=%s", c.Port, c.LogLevel)
	}
	if c.Board.Rows != 9 || c.Board.Cols != 12 || c.Board.Mines != 20 {
		t.Fatalf("board=%+v", c.Board)
	}
	if !c.AutoRestart || c.SessionTTL != 15*time.Minute {
		t.Fatalf("autoRestart=%v ttl=%s", c.AutoRestart, c.SessionTTL)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("BOARD_ROWS", "lots")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("SESSION_TTL", "-5m")
	c := FromEnv()
	if c.Board.Rows != 6 || c.LogLevel != zerolog.InfoLevel || c.SessionTTL != 2*time.Hour {
		t.Fatalf("garbage leaked into config: %+v", c)
	}
}
