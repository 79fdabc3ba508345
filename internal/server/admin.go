package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

func (s *Server) listOverrides(c *gin.Context) {
	overrides, err := s.deps.Store.Overrides.All(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("[admin] list overrides failed")
		respondError(c, http.StatusServiceUnavailable, "could not load overrides")
		return
	}
	c.JSON(http.StatusOK, overrides)
}

func (s *Server) putOverride(c *gin.Context) {
	var entry store.Override
	if !bindJSON(c, &entry, "request body must be {\"date\", \"fajr\", \"maghrib\"}") {
		return
	}
	clean, err := store.ValidateOverride(entry)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := s.deps.Store.Overrides.Set(c.Request.Context(), clean); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, clean)
}

func (s *Server) bulkOverrides(c *gin.Context) {
	entries, err := store.DecodeOverrides(c.Request.Body)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := s.deps.Store.Overrides.SetBulk(c.Request.Context(), entries); err != nil {
		respondErr(c, err)
		return
	}
	log.Info().Int("count", len(entries)).Str("admin", currentSession(c).UserID).Msg("[admin] overrides imported")
	c.JSON(http.StatusOK, gin.H{"saved": len(entries)})
}

func (s *Server) deleteOverride(c *gin.Context) {
	if err := s.deps.Store.Overrides.Delete(c.Request.Context(), c.Param("date")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.deps.Store.Profiles.Stats(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("[admin] stats failed")
		respondError(c, http.StatusServiceUnavailable, "could not load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
