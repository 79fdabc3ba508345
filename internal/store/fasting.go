package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RamadanDays is the number of fasting days (and of Quran paras) tracked.
const RamadanDays = 30

// Fasting tracks which of the 30 Ramadan days a user has fasted.
type Fasting struct {
	db *gorm.DB
}

// Get returns the completed days in ascending order. Logged out or on failure it returns an empty set.
func (f *Fasting) Get(ctx context.Context, sess Session) []int {
	if !sess.LoggedIn() {
		return []int{}
	}

	var profile Profile
	err := f.db.WithContext(ctx).Select("fasting_progress").Where("id = ?", sess.UserID).Take(&profile).Error
	if err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("[store] fasting get failed")
		return []int{}
	}
	if profile.FastingProgress == nil {
		return []int{}
	}
	return []int(profile.FastingProgress)
}

// Save replaces the whole set of completed days. Total fasts on the profile follows the set size.
func (f *Fasting) Save(ctx context.Context, sess Session, days []int) error {
	if !sess.LoggedIn() {
		return nil
	}
	set, err := normalizeDays(days)
	if err != nil {
		return err
	}

	err = f.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", sess.UserID).Updates(map[string]any{
		"fasting_progress": datatypes.JSONSlice[int](set),
		"total_fasts":      len(set),
	}).Error
	if err != nil {
		return writeFailed("save fasting progress", err)
	}
	return nil
}

// normalizeDays sorts and deduplicates days, rejecting anything outside 1..30.
func normalizeDays(days []int) ([]int, error) {
	seen := make(map[int]bool, len(days))
	set := make([]int, 0, len(days))
	for _, d := range days {
		if d < 1 || d > RamadanDays {
			return nil, fmt.Errorf("%w: day %d outside 1..%d", ErrInvalid, d, RamadanDays)
		}
		if !seen[d] {
			seen[d] = true
			set = append(set, d)
		}
	}
	sort.Ints(set)
	return set, nil
}
