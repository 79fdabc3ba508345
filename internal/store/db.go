// Package store persists profiles, per-user trackers and calendar overrides.
//
// SQLite is the default backend; a postgres:// DSN selects PostgreSQL.
// Every write is a last-write-wins upsert keyed by the owning user.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrOperationFailed wraps any failed remote write. Callers may retry.
	ErrOperationFailed = errors.New("operation failed")
	// ErrInvalid is returned for input rejected before touching the database.
	ErrInvalid = errors.New("invalid input")
)

// Open connects to the database named by dsn.
func Open(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Debug().Str("dialect", dialector.Name()).Msg("database connected")
	return db, nil
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Profile{},
		&JournalEntry{},
		&WaterLog{},
		&ChecklistItem{},
		&Override{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Store bundles the collections backed by one database.
type Store struct {
	Profiles  *Profiles
	Fasting   *Fasting
	Journal   *Journal
	Water     *Water
	Checklist *Checklist
	Quran     *Quran
	Overrides *Overrides

	db *gorm.DB
}

// New wires every collection to db.
func New(db *gorm.DB) *Store {
	return &Store{
		Profiles:  &Profiles{db: db},
		Fasting:   &Fasting{db: db},
		Journal:   &Journal{db: db},
		Water:     NewWater(db, time.Now),
		Checklist: &Checklist{db: db},
		Quran:     &Quran{db: db},
		Overrides: &Overrides{db: db},
		db:        db,
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Session identifies whose records are read and written.
// The zero Session is logged out: reads return defaults and writes are no-ops.
type Session struct {
	UserID string
	Role   Role
}

// LoggedIn reports whether the session carries a user id.
func (s Session) LoggedIn() bool {
	return s.UserID != ""
}

// IsAdmin reports whether the session may edit calendar overrides.
func (s Session) IsAdmin() bool {
	return s.LoggedIn() && s.Role == RoleAdmin
}

func writeFailed(what string, err error) error {
	log.Error().Err(err).Msgf("[store] %s failed", what)
	return fmt.Errorf("%s: %w: %v", what, ErrOperationFailed, err)
}
