package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// JournalDateLayout is the display label stored with each entry.
const JournalDateLayout = "02 Jan 2006"

// NewJournalEntry stamps a fresh entry written at now.
func NewJournalEntry(now time.Time, mood Mood, text string) JournalEntry {
	return JournalEntry{
		ID:        uuid.NewString(),
		Date:      now.Format(JournalDateLayout),
		Mood:      mood,
		Text:      text,
		Timestamp: now.UnixMilli(),
	}
}

// Journal stores a user's reflections.
type Journal struct {
	db *gorm.DB
}

// List returns every entry, newest first.
func (j *Journal) List(ctx context.Context, sess Session) []JournalEntry {
	if !sess.LoggedIn() {
		return []JournalEntry{}
	}

	var entries []JournalEntry
	err := j.db.WithContext(ctx).Where("user_id = ?", sess.UserID).Order("timestamp DESC").Find(&entries).Error
	if err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("[store] journal list failed")
		return []JournalEntry{}
	}
	return entries
}

// Add appends one entry. The caller chooses a unique ID and the timestamp.
func (j *Journal) Add(ctx context.Context, sess Session, entry JournalEntry) error {
	if !sess.LoggedIn() {
		return nil
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: journal entry needs an id", ErrInvalid)
	}
	if !entry.Mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", ErrInvalid, entry.Mood)
	}

	entry.UserID = sess.UserID
	err := j.db.WithContext(ctx).Create(&entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return writeFailed("add journal entry", fmt.Errorf("duplicate id %q", entry.ID))
	}
	if err != nil {
		return writeFailed("add journal entry", err)
	}
	return nil
}
