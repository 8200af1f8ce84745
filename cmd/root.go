package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/alphabet-bingo/internal/config"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "bingo",
	Short: "Alphabet Bingo: learn letters by name or sound",
	Long: `bingo runs the Alphabet Bingo game.

Serve the HTTP API for the browser client
	bingo serve

Play a round in the terminal
	bingo play

Show or reset the stored best score
	bingo best [--reset]
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevel(cmd, config.Load())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setLogLevel applies --log-level if given, LOG_LEVEL (env or .env) otherwise.
func setLogLevel(cmd *cobra.Command, cfg config.Config) {
	level := cfg.LogLevel
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		level = f.Value.String()
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error), overrides LOG_LEVEL")
}
