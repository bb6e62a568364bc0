package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minesweeper/internal/config"
)

var (
	// cfg is filled by Execute; importing the package reads no environment.
	cfg    config.Config
	pretty bool
)

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper board engine with an HTTP and terminal front end",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(cfg.LogLevel)
		if pretty {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable console logs instead of JSON")
}

// Execute loads the configuration, binds it to the subcommand flags so
// they override it, and runs the root command.
func Execute() error {
	cfg = config.Load()
	bindServeFlags(serveCmd)
	bindPlayFlags(playCmd)
	return rootCmd.Execute()
}
