package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
)

type todayResponse struct {
	api.Data
	Next  *prayer.Next `json:"next,omitempty"`
	Night bool         `json:"night"`
}

// coordinates reads lat/lon from the query, falling back to the configured location.
func (s *Server) coordinates(c *gin.Context) (geo.Coordinates, bool) {
	latRaw, lonRaw := c.Query("lat"), c.Query("lon")
	if latRaw == "" && lonRaw == "" {
		return s.opts.Coordinates, true
	}
	lat, err1 := strconv.ParseFloat(latRaw, 64)
	lon, err2 := strconv.ParseFloat(lonRaw, 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		respondError(c, http.StatusBadRequest, "lat and lon must both be valid coordinates")
		return geo.Coordinates{}, false
	}
	return geo.Coordinates{Latitude: lat, Longitude: lon}, true
}

func (s *Server) prayerToday(c *gin.Context) {
	coords, ok := s.coordinates(c)
	if !ok {
		return
	}

	data, err := s.deps.Prayers.Today(c.Request.Context(), coords)
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := todayResponse{Data: *data}
	now := s.deps.Prayers.Now()
	if next, err := prayer.NextPrayer(data.Timings, now); err == nil {
		resp.Next = &next
	} else {
		log.Warn().Err(err).Msg("could not compute next prayer")
	}
	if night, err := prayer.IsNight(data.Timings, now); err == nil {
		resp.Night = night
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) prayerCalendar(c *gin.Context) {
	coords, ok := s.coordinates(c)
	if !ok {
		return
	}
	month, err := optionalInt(c, "month", 1, 12)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	year, err := optionalInt(c, "year", 1, 9999)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	days, err := s.deps.Prayers.Month(c.Request.Context(), coords, month, year)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (s *Server) scheduleDays(c *gin.Context) {
	year, err := optionalInt(c, "year", 1, 9999)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if year == 0 {
		year = s.opts.Now().Year()
	}
	c.JSON(http.StatusOK, s.deps.Schedule.Days(year))
}

func (s *Server) scheduleToday(c *gin.Context) {
	pos := s.deps.Schedule.Locate(s.opts.Now())
	c.JSON(http.StatusOK, gin.H{
		"phase":  pos.Phase,
		"day":    pos.Day,
		"ashra":  pos.Day.Ashra,
		"season": s.deps.Schedule.Season(s.opts.Now().Year()).Year,
		"days":   schedule.Days,
	})
}

// optionalInt parses query key as an int in [lo, hi]; absent means 0.
func optionalInt(c *gin.Context, key string, lo, hi int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}
	return v, nil
}
