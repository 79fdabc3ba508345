package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultWaterGoal is the daily glass target for a fresh log.
const DefaultWaterGoal = 8

// WaterDateLayout formats the day key of a water log, e.g. "Thu Feb 19 2026".
const WaterDateLayout = "Mon Jan 02 2006"

// Water keeps one intake record per user per day.
type Water struct {
	db  *gorm.DB
	now func() time.Time
}

// NewWater returns a water tracker whose notion of today comes from now.
func NewWater(db *gorm.DB, now func() time.Time) *Water {
	if now == nil {
		now = time.Now
	}
	return &Water{db: db, now: now}
}

// TodayKey is the day key for the tracker's current date.
func (w *Water) TodayKey() string {
	return w.now().Format(WaterDateLayout)
}

// Today returns today's log, or a zero-glasses default when none was saved.
func (w *Water) Today(ctx context.Context, sess Session) WaterLog {
	fallback := WaterLog{Date: w.TodayKey(), Glasses: 0, Goal: DefaultWaterGoal}
	if !sess.LoggedIn() {
		return fallback
	}

	var entry WaterLog
	err := w.db.WithContext(ctx).Where("user_id = ? AND date = ?", sess.UserID, fallback.Date).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback
	}
	if err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("[store] water get failed")
		return fallback
	}
	return entry
}

// Update upserts the full record keyed by user and date. An empty date means today.
func (w *Water) Update(ctx context.Context, sess Session, entry WaterLog) error {
	if !sess.LoggedIn() {
		return nil
	}
	if entry.Date == "" {
		entry.Date = w.TodayKey()
	}
	if entry.Glasses < 0 {
		return fmt.Errorf("%w: glasses cannot be negative", ErrInvalid)
	}
	if entry.Goal <= 0 {
		return fmt.Errorf("%w: goal must be positive", ErrInvalid)
	}

	entry.UserID = sess.UserID
	err := w.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
	if err != nil {
		return writeFailed("update water log", err)
	}
	return nil
}
