package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variables read by LoadEnv.
const (
	EnvDatabaseURL   = "RAMADAN_DATABASE_URL"
	EnvSessionSecret = "RAMADAN_SESSION_SECRET"
	EnvListen        = "RAMADAN_LISTEN"
	EnvCORSOrigins   = "RAMADAN_CORS_ORIGINS"
	EnvAPIBase       = "RAMADAN_API_BASE"
	EnvSentryDSN     = "SENTRY_DSN"
)

// Env holds settings that come only from the environment, plus overrides for file settings.
type Env struct {
	DatabaseURL   string
	SessionSecret string
	Listen        string
	CORSOrigins   string
	APIBase       string
	SentryDSN     string
}

// LoadEnv loads .env files (missing files are ignored) and reads the process environment.
// Variables already set in the process win over .env values.
func LoadEnv(files ...string) Env {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", f).Msg("failed to load env file")
		}
	}

	return Env{
		DatabaseURL:   os.Getenv(EnvDatabaseURL),
		SessionSecret: os.Getenv(EnvSessionSecret),
		Listen:        os.Getenv(EnvListen),
		CORSOrigins:   os.Getenv(EnvCORSOrigins),
		APIBase:       os.Getenv(EnvAPIBase),
		SentryDSN:     os.Getenv(EnvSentryDSN),
	}
}

// ApplyEnv overlays non-empty environment values onto c.
func (c *Config) ApplyEnv(e Env) {
	if e.DatabaseURL != "" {
		c.Database = e.DatabaseURL
	}
	if e.Listen != "" {
		c.Listen = e.Listen
	}
	if e.CORSOrigins != "" {
		c.CORSOrigins = e.CORSOrigins
	}
}
