package store

import (
	"gorm.io/datatypes"
)

// Role is a profile's permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is one registered user. Name doubles as the login credential.
type Profile struct {
	ID           string                      `gorm:"primaryKey;size:36" json:"id"`
	Name         string                      `gorm:"size:255;not null;uniqueIndex" json:"name"`
	HasOnboarded bool                        `gorm:"not null" json:"hasOnboarded"`
	Streak       int                         `gorm:"not null" json:"streak"`
	TotalFasts   int                         `gorm:"not null" json:"totalFasts"`
	Role         Role                        `gorm:"size:20;not null;default:'user'" json:"role"`
	Badges       datatypes.JSONSlice[string] `json:"badges"`

	FastingProgress     datatypes.JSONSlice[int]          `json:"-"`
	QuranCompletedParas datatypes.JSONSlice[int]          `json:"-"`
	QuranLastRead       datatypes.JSONType[QuranProgress] `json:"-"`
}

// Session returns the store session acting as p.
func (p *Profile) Session() Session {
	if p == nil {
		return Session{}
	}
	return Session{UserID: p.ID, Role: p.Role}
}

// Mood is the feeling attached to a journal entry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodGrateful Mood = "grateful"
	MoodNeutral  Mood = "neutral"
	MoodTired    Mood = "tired"
	MoodSad      Mood = "sad"
)

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodGrateful, MoodNeutral, MoodTired, MoodSad:
		return true
	}
	return false
}

// JournalEntry is one reflection. Date is a display label, Timestamp (ms) orders entries.
type JournalEntry struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	UserID    string `gorm:"size:36;not null;index:idx_journal_user_ts,priority:1" json:"-"`
	Date      string `gorm:"size:64" json:"date"`
	Mood      Mood   `gorm:"size:16" json:"mood"`
	Text      string `gorm:"type:text" json:"text"`
	Timestamp int64  `gorm:"not null;index:idx_journal_user_ts,priority:2,sort:desc" json:"timestamp"`
}

func (JournalEntry) TableName() string { return "journal" }

// WaterLog is one user's intake for one day.
type WaterLog struct {
	UserID  string `gorm:"primaryKey;size:36" json:"-"`
	Date    string `gorm:"primaryKey;size:32" json:"date"`
	Glasses int    `gorm:"not null" json:"glasses"`
	Goal    int    `gorm:"not null" json:"goal"`
}

func (WaterLog) TableName() string { return "water_tracking" }

// ChecklistItem is one daily act on a user's checklist.
type ChecklistItem struct {
	UserID    string `gorm:"primaryKey;size:36" json:"-"`
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Text      string `gorm:"size:255;not null" json:"text"`
	Completed bool   `gorm:"not null" json:"completed"`
	IsDefault bool   `gorm:"not null" json:"isDefault"`
	Position  int    `gorm:"not null" json:"-"`
}

func (ChecklistItem) TableName() string { return "checklist" }

// QuranProgress is the single reading bookmark kept per user.
type QuranProgress struct {
	SurahNumber int    `json:"surahNumber"`
	SurahName   string `json:"surahName"`
	AyahNumber  int    `json:"ayahNumber"`
	Timestamp   int64  `json:"timestamp"`
}

// Override corrects the Fajr (sehri) and Maghrib (iftar) times of one date.
// Date uses the timing API's readable label, e.g. "19 Feb 2026".
type Override struct {
	Date    string `gorm:"primaryKey;size:32" json:"date"`
	Fajr    string `gorm:"size:8;not null" json:"fajr"`
	Maghrib string `gorm:"size:8;not null" json:"maghrib"`
}

func (Override) TableName() string { return "calendar_overrides" }
