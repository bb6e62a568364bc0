package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/httpserver"
	"github.com/robalobadob/minesweeper/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON/websocket game API",
	Long: `Serve the JSON/websocket game API.

Examples:
  minesweeper serve
  minesweeper serve --port 8080 --auto-restart
  BOARD_ROWS=9 BOARD_COLS=9 BOARD_MINES=10 minesweeper serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// bindServeFlags registers the serve flags with the loaded config as defaults.
func bindServeFlags(c *cobra.Command) {
	c.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port")
	c.Flags().BoolVar(&cfg.AutoRestart, "auto-restart", cfg.AutoRestart, "Start a new board on the next action after a win or loss")
	c.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Drop sessions idle for longer than this")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Board.Validate(); err != nil {
		return err
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", cfg.SessionTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, httpserver.Options{
		Board:        cfg.Board,
		AutoRestart:  cfg.AutoRestart,
		JWTSecret:    cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
		DailySalt:    cfg.DailySalt,
	})
	go pruneSessions(ctx, mem, cfg.SessionTTL)

	log.Info().Str("port", cfg.Port).
		Int("rows", cfg.Board.Rows).Int("cols", cfg.Board.Cols).Int("mines", cfg.Board.Mines).
		Msg("starting minesweeper server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	return nil
}

// pruneSessions drops idle sessions every ttl/4 until ctx is done.
func pruneSessions(ctx context.Context, st store.Store, ttl time.Duration) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := st.Prune(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("prune sessions")
				continue
			}
			if n > 0 {
				log.Info().Int("pruned", n).Int("live", st.Len()).Msg("pruned idle sessions")
			}
		}
	}
}
