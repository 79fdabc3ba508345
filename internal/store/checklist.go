package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultChecklist returns the five daily acts every user starts with.
func DefaultChecklist() []ChecklistItem {
	return []ChecklistItem{
		{ID: "1", Text: "Pray 5 Times", IsDefault: true},
		{ID: "2", Text: "Read Quran", IsDefault: true},
		{ID: "3", Text: "Give Sadaqah", IsDefault: true},
		{ID: "4", Text: "Listen to Islamic Lecture", IsDefault: true},
		{ID: "5", Text: "Taraweeh", IsDefault: true},
	}
}

// Checklist stores a user's daily acts.
type Checklist struct {
	db *gorm.DB
}

// Get returns the stored items, or the defaults when the user has none.
func (c *Checklist) Get(ctx context.Context, sess Session) []ChecklistItem {
	if !sess.LoggedIn() {
		return DefaultChecklist()
	}

	var items []ChecklistItem
	err := c.db.WithContext(ctx).Where("user_id = ?", sess.UserID).Order("position").Find(&items).Error
	if err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("[store] checklist get failed")
		return DefaultChecklist()
	}
	if len(items) == 0 {
		return DefaultChecklist()
	}
	return items
}

// Save replaces the user's whole checklist with items.
func (c *Checklist) Save(ctx context.Context, sess Session, items []ChecklistItem) error {
	if !sess.LoggedIn() {
		return nil
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	rows := make([]ChecklistItem, 0, len(items))
	for i, item := range items {
		if item.ID == "" || item.Text == "" {
			return fmt.Errorf("%w: checklist items need an id and text", ErrInvalid)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate checklist id %q", ErrInvalid, item.ID)
		}
		seen[item.ID] = true
		item.UserID = sess.UserID
		item.Position = i
		ids = append(ids, item.ID)
		rows = append(rows, item)
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("user_id = ?", sess.UserID)
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&ChecklistItem{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
	if err != nil {
		return writeFailed("save checklist", err)
	}
	return nil
}
