package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/alphabet-bingo/internal/config"
	"github.com/robalobadob/alphabet-bingo/internal/cue"
	"github.com/robalobadob/alphabet-bingo/internal/httpserver"
	"github.com/robalobadob/alphabet-bingo/internal/score"
	"github.com/robalobadob/alphabet-bingo/internal/store"
)

var serveFlags struct {
	port string
	db   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if serveFlags.port != "" {
			cfg.Port = serveFlags.port
		}
		if serveFlags.db != "" {
			cfg.DBPath = serveFlags.db
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		scores := openScores(ctx, cfg.DBPath)
		cues, err := cue.Load(cfg.CuesFile)
		if err != nil {
			return err
		}

		srv := httpserver.New(httpserver.Options{
			Store:             store.NewMemoryStore(),
			Scores:            scores,
			Cues:              cues,
			Pacing:            cfg.Pacing,
			ClientOrigin:      cfg.ClientOrigin,
			TokenSecret:       cfg.TokenSecret,
			TokenTTL:          cfg.TokenTTL,
			AdminPasswordHash: cfg.AdminPasswordHash,
			IdleTimeout:       cfg.IdleTimeout,
			SweepInterval:     cfg.SweepInterval,
		})
		log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Int("cues", len(cues)).Msg("starting bingo server")
		return srv.Start(ctx, ":"+cfg.Port)
	},
}

// openScores returns a tracker backed by SQLite at path. If the database
// cannot be opened the tracker runs on a store that always fails, so the
// game stays playable with a best score of 0.
func openScores(ctx context.Context, path string) *score.Tracker {
	if path == "" {
		return score.NewTracker(score.NewMemory(0), &log.Logger)
	}
	db, err := score.OpenSQLite(ctx, path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("best score persistence unavailable")
		return score.NewTracker(score.Unavailable{}, &log.Logger)
	}
	go func() {
		<-ctx.Done()
		_ = db.Close()
	}()
	return score.NewTracker(db, &log.Logger)
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveFlags.db, "db", "", "SQLite file for the best score (overrides DB_PATH)")
	rootCmd.AddCommand(serveCmd)
}
