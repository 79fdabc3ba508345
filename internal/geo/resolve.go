package geo

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Source says where a resolved position came from.
type Source string

const (
	SourceConfig   Source = "config"
	SourceCache    Source = "cache"
	SourceDetected Source = "detected"
	SourceFallback Source = "fallback"
)

// Resolved is a position plus whatever was learned about it.
type Resolved struct {
	Coordinates
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Source   Source `json:"source"`
}

// Resolve picks coordinates in order: explicit, cached detection, fresh
// detection, then Fallback. It never fails; cache may be nil.
func Resolve(ctx context.Context, explicit *Coordinates, cache *Cache) Resolved {
	if explicit != nil {
		return Resolved{Coordinates: *explicit, Source: SourceConfig}
	}

	if cache != nil {
		if loc := cache.Load(); loc != nil {
			return fromLocation(loc, SourceCache)
		}
	}

	loc, err := DetectLocation(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("location detection failed, using fallback coordinates")
		return Resolved{Coordinates: Fallback, Source: SourceFallback}
	}

	if cache != nil {
		if err := cache.Save(loc); err != nil {
			log.Debug().Err(err).Msg("could not cache location")
		}
	}
	return fromLocation(loc, SourceDetected)
}

func fromLocation(loc *Location, src Source) Resolved {
	return Resolved{
		Coordinates: loc.Coordinates(),
		City:        loc.City,
		Country:     loc.Country,
		Timezone:    loc.Timezone,
		Source:      src,
	}
}
