package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Overrides is the process-wide table of manual sehri/iftar corrections.
// It is read fresh on every prayer-time fetch and never cached.
type Overrides struct {
	db *gorm.DB
}

// All returns every override keyed by date.
func (o *Overrides) All(ctx context.Context) (map[string]Override, error) {
	var rows []Override
	if err := o.db.WithContext(ctx).Order("date").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}

	out := make(map[string]Override, len(rows))
	for _, row := range rows {
		out[row.Date] = row
	}
	return out, nil
}

// Set upserts one override.
func (o *Overrides) Set(ctx context.Context, entry Override) error {
	return o.SetBulk(ctx, []Override{entry})
}

// SetBulk validates every entry, then upserts them together. Nothing is written if any entry is invalid.
// When a date appears more than once the last entry for it wins.
func (o *Overrides) SetBulk(ctx context.Context, entries []Override) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]Override, len(entries))
	for i, entry := range entries {
		clean, err := ValidateOverride(entry)
		if err != nil {
			return err
		}
		rows[i] = clean
	}
	rows = latestByDate(rows)

	err := o.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	if err != nil {
		return writeFailed("save overrides", err)
	}
	return nil
}

// latestByDate keeps one row per date, holding the values of its last
// occurrence at the position of its first. PostgreSQL rejects an upsert
// that touches the same row twice.
func latestByDate(rows []Override) []Override {
	pos := make(map[string]int, len(rows))
	out := rows[:0:0]
	for _, row := range rows {
		if i, ok := pos[row.Date]; ok {
			out[i] = row
			continue
		}
		pos[row.Date] = len(out)
		out = append(out, row)
	}
	return out
}

// Delete removes the override for date, if any.
func (o *Overrides) Delete(ctx context.Context, date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return fmt.Errorf("%w: override date is empty", ErrInvalid)
	}
	if err := o.db.WithContext(ctx).Where("date = ?", date).Delete(&Override{}).Error; err != nil {
		return writeFailed("delete override", err)
	}
	return nil
}

// ValidateOverride trims the entry and checks both times are HH:MM.
func ValidateOverride(entry Override) (Override, error) {
	entry.Date = strings.TrimSpace(entry.Date)
	entry.Fajr = strings.TrimSpace(entry.Fajr)
	entry.Maghrib = strings.TrimSpace(entry.Maghrib)

	if entry.Date == "" {
		return Override{}, fmt.Errorf("%w: override date is empty", ErrInvalid)
	}
	if !clockPattern.MatchString(entry.Fajr) {
		return Override{}, fmt.Errorf("%w: fajr %q for %s is not HH:MM", ErrInvalid, entry.Fajr, entry.Date)
	}
	if !clockPattern.MatchString(entry.Maghrib) {
		return Override{}, fmt.Errorf("%w: maghrib %q for %s is not HH:MM", ErrInvalid, entry.Maghrib, entry.Date)
	}
	return entry, nil
}

// DecodeOverrides reads a JSON array of {date, fajr, maghrib} objects,
// the shape produced by the calendar text extractor.
func DecodeOverrides(r io.Reader) ([]Override, error) {
	var entries []Override
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: decode overrides: %v", ErrInvalid, err)
	}
	return entries, nil
}
