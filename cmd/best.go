package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/alphabet-bingo/internal/config"
)

var bestFlags struct {
	db    string
	reset bool
}

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Print or reset the stored best score",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := bestFlags.db
		if path == "" {
			path = config.Load().DBPath
		}
		ctx := context.Background()
		scores := openScores(ctx, path)
		if bestFlags.reset {
			if err := scores.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "best score reset")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), scores.Best(ctx))
		return nil
	},
}

func init() {
	bestCmd.Flags().StringVar(&bestFlags.db, "db", "", "SQLite file for the best score (overrides DB_PATH)")
	bestCmd.Flags().BoolVar(&bestFlags.reset, "reset", false, "Reset the best score to 0")
	rootCmd.AddCommand(bestCmd)
}
