package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_DotenvFile(t *testing.T) {
	for _, k := range []string{EnvDatabaseURL, EnvSessionSecret, EnvListen, EnvCORSOrigins, EnvAPIBase, EnvSentryDSN} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "RAMADAN_DATABASE_URL=postgres://localhost/ramadan\nRAMADAN_SESSION_SECRET=s3cret\nSENTRY_DSN=https://key@sentry.example/1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets process variables; make sure they are cleaned up.
	t.Cleanup(func() {
		os.Unsetenv(EnvDatabaseURL)
		os.Unsetenv(EnvSessionSecret)
		os.Unsetenv(EnvSentryDSN)
	})

	env := LoadEnv(path)
	if env.DatabaseURL != "postgres://localhost/ramadan" {
		t.Errorf("DatabaseURL = %q", env.DatabaseURL)
	}
	if env.SessionSecret != "s3cret" {
		t.Errorf("SessionSecret = %q", env.SessionSecret)
	}
	if env.SentryDSN != "https://key@sentry.example/1" {
		t.Errorf("SentryDSN = %q", env.SentryDSN)
	}
}

func TestLoadEnv_ProcessWinsOverFile(t *testing.T) {
	t.Setenv(EnvListen, ":7000")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RAMADAN_LISTEN=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if env := LoadEnv(path); env.Listen != ":7000" {
		t.Errorf("Listen = %q, want process value :7000", env.Listen)
	}
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	t.Setenv(EnvAPIBase, "http://localhost:1234/v1")

	env := LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	if env.APIBase != "http://localhost:1234/v1" {
		t.Errorf("APIBase = %q", env.APIBase)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Defaults()
	cfg.Database = "/tmp/file.db"

	cfg.ApplyEnv(Env{DatabaseURL: "postgres://db/ramadan", CORSOrigins: "https://app.test"})

	if cfg.Database != "postgres://db/ramadan" {
		t.Errorf("Database = %q, want env value", cfg.Database)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("Listen = %q, want unchanged default", cfg.Listen)
	}
	if cfg.CORSOrigins != "https://app.test" {
		t.Errorf("CORSOrigins = %q, want env value", cfg.CORSOrigins)
	}
}
