// internal/config/config.go
//
// Process configuration, read from the environment after loading an optional
// .env file.
//
// Environment variables:
//   PORT           HTTP port (default 5175)
//   LOG_LEVEL      zerolog level (default info)
//   BOARD_ROWS     default board rows (default 6)
//   BOARD_COLS     default board cols (default 6)
//   BOARD_MINES    default mine count (default 6)
//   AUTO_RESTART   restart finished boards on the next action (default false)
//   JWT_SECRET     HMAC key for session tokens
//   CLIENT_ORIGIN  CORS origin (default http://localhost:5173)
//   DAILY_SALT     salt for the board of the day
//   SESSION_TTL    idle time before a session is dropped (default 2h)

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/minesweeper/internal/game"
)

type Config struct {
	Port         string
	LogLevel     zerolog.Level
	Board        game.Config
	AutoRestart  bool
	JWTSecret    string
	ClientOrigin string
	DailySalt    string
	SessionTTL   time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	def := game.DefaultConfig()
	return Config{
		Port:     getEnv("PORT", "5175"),
		LogLevel: lvl,
		Board: game.Config{
			Rows:  envInt("BOARD_ROWS", def.Rows),
			Cols:  envInt("BOARD_COLS", def.Cols),
			Mines: envInt("BOARD_MINES", def.Mines),
		},
		AutoRestart:  envBool("AUTO_RESTART", false),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		SessionTTL:   envDuration("SESSION_TTL", 2*time.Hour),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}

func envBool(k string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
