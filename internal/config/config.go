// internal/config/config.go
//
// Service configuration from the environment.
// A .env file in the working directory is loaded first (development);
// variables already set in the environment win.
//
// Environment variables (defaults in parentheses):
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/bingo.db),
//   CLIENT_ORIGIN (http://localhost:5173),
//   TOKEN_SECRET (dev_secret_change_me), TOKEN_TTL_HOURS (12),
//   ADMIN_PASSWORD_HASH (unset: admin reset disabled), CUES_FILE (embedded table),
//   SESSION_IDLE_MINUTES (30), SWEEP_INTERVAL_MS (100),
//   START_DELAY_MS (500), NEXT_LETTER_DELAY_MS (400), CUE_DELAY_MS (150),
//   INCORRECT_CLEAR_MS (500).

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/alphabet-bingo/internal/game"
)

// Config is the resolved service configuration.
type Config struct {
	Port              string
	LogLevel          string
	DBPath            string
	ClientOrigin      string
	TokenSecret       string
	TokenTTL          time.Duration
	AdminPasswordHash string
	CuesFile          string
	IdleTimeout       time.Duration
	SweepInterval     time.Duration
	Pacing            game.Pacing
}

// Load reads .env (if present) and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	def := game.DefaultPacing()
	return Config{
		Port:              getEnv("PORT", "5175"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DBPath:            getEnv("DB_PATH", "./data/bingo.db"),
		ClientOrigin:      getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		TokenSecret:       getEnv("TOKEN_SECRET", "dev_secret_change_me"),
		TokenTTL:          time.Duration(envInt("TOKEN_TTL_HOURS", 12)) * time.Hour,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CuesFile:          os.Getenv("CUES_FILE"),
		IdleTimeout:       time.Duration(envInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		SweepInterval:     envMillis("SWEEP_INTERVAL_MS", 100*time.Millisecond),
		Pacing: game.Pacing{
			StartDelay:      envMillis("START_DELAY_MS", def.StartDelay),
			NextLetterDelay: envMillis("NEXT_LETTER_DELAY_MS", def.NextLetterDelay),
			CueDelay:        envMillis("CUE_DELAY_MS", def.CueDelay),
			IncorrectClear:  envMillis("INCORRECT_CLEAR_MS", def.IncorrectClear),
		},
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses a positive integer, falling back to def.
func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("var", k).Str("value", v).Int("default", def).Msg("invalid number, using default")
		return def
	}
	return n
}

func envMillis(k string, def time.Duration) time.Duration {
	return time.Duration(envInt(k, int(def/time.Millisecond))) * time.Millisecond
}
