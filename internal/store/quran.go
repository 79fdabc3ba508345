package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxSurah is the number of surahs in the Quran.
const MaxSurah = 114

// Quran keeps a user's reading bookmark and completed paras.
type Quran struct {
	db *gorm.DB
}

// LastRead returns the bookmark, or nil when none was saved.
func (q *Quran) LastRead(ctx context.Context, sess Session) *QuranProgress {
	if !sess.LoggedIn() {
		return nil
	}

	var profile Profile
	err := q.db.WithContext(ctx).Select("quran_last_read").Where("id = ?", sess.UserID).Take(&profile).Error
	if err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("[store] quran last read failed")
		return nil
	}
	progress := profile.QuranLastRead.Data()
	if progress.SurahNumber == 0 {
		return nil
	}
	return &progress
}

// SaveLastRead overwrites the bookmark.
func (q *Quran) SaveLastRead(ctx context.Context, sess Session, progress QuranProgress) error {
	if !sess.LoggedIn() {
		return nil
	}
	if progress.SurahNumber < 1 || progress.SurahNumber > MaxSurah {
		return fmt.Errorf("%w: surah %d outside 1..%d", ErrInvalid, progress.SurahNumber, MaxSurah)
	}
	if progress.AyahNumber < 1 {
		return fmt.Errorf("%w: ayah must be at least 1", ErrInvalid)
	}

	err := q.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", sess.UserID).
		Update("quran_last_read", datatypes.NewJSONType(progress)).Error
	if err != nil {
		return writeFailed("save quran last read", err)
	}
	return nil
}

// Paras returns the completed paras (juz) in ascending order.
func (q *Quran) Paras(ctx context.Context, sess Session) []int {
	if !sess.LoggedIn() {
		return []int{}
	}

	var profile Profile
	err := q.db.WithContext(ctx).Select("quran_completed_paras").Where("id = ?", sess.UserID).Take(&profile).Error
	if err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("[store] quran paras failed")
		return []int{}
	}
	if profile.QuranCompletedParas == nil {
		return []int{}
	}
	return []int(profile.QuranCompletedParas)
}

// SaveParas replaces the whole set of completed paras.
func (q *Quran) SaveParas(ctx context.Context, sess Session, paras []int) error {
	if !sess.LoggedIn() {
		return nil
	}
	set, err := normalizeDays(paras)
	if err != nil {
		return err
	}

	err = q.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", sess.UserID).
		Update("quran_completed_paras", datatypes.JSONSlice[int](set)).Error
	if err != nil {
		return writeFailed("save quran paras", err)
	}
	return nil
}
