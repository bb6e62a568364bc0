package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/tui"
)

var playSeed int64

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play a board in the terminal.

Examples:
  minesweeper play
  minesweeper play --rows 9 --cols 9 --mines 10
  minesweeper play --seed 42`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func bindPlayFlags(c *cobra.Command) {
	c.Flags().IntVarP(&cfg.Board.Rows, "rows", "r", cfg.Board.Rows, "Board rows")
	c.Flags().IntVarP(&cfg.Board.Cols, "cols", "c", cfg.Board.Cols, "Board columns")
	c.Flags().IntVarP(&cfg.Board.Mines, "mines", "m", cfg.Board.Mines, "Number of mines")
	c.Flags().Int64Var(&playSeed, "seed", 0, "Fixed layout seed (0 = random)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	sess, err := game.NewSession(cfg.Board, game.SessionOptions{Seed: playSeed, FixedSeed: playSeed != 0})
	if err != nil {
		return err
	}
	// Log lines would tear the alt screen.
	zerolog.SetGlobalLevel(zerolog.Disabled)
	defer zerolog.SetGlobalLevel(cfg.LogLevel)

	_, err = tea.NewProgram(tui.New(sess), tea.WithAltScreen()).Run()
	return err
}
