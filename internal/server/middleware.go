package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

const (
	sessionUserKey = "user_id"
	profileKey     = "profile"
)

// requestLogger logs one line per request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// loadProfile resolves the cookie's user id to a profile and stores it on the context.
// A stale id (profile deleted) clears the cookie.
func (s *Server) loadProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		id, _ := sess.Get(sessionUserKey).(string)
		if id == "" {
			c.Next()
			return
		}

		profile, err := s.deps.Store.Profiles.ByID(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			sess.Clear()
			_ = sess.Save()
		case err != nil:
			log.Warn().Err(err).Str("user", id).Msg("could not load session profile")
		default:
			c.Set(profileKey, profile)
		}
		c.Next()
	}
}

func currentProfile(c *gin.Context) *store.Profile {
	v, ok := c.Get(profileKey)
	if !ok {
		return nil
	}
	p, _ := v.(*store.Profile)
	return p
}

func currentSession(c *gin.Context) store.Session {
	return currentProfile(c).Session()
}

func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).LoggedIn() {
			respondError(c, http.StatusUnauthorized, "sign in first")
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.LoggedIn() {
			respondError(c, http.StatusUnauthorized, "sign in first")
			c.Abort()
			return
		}
		if !sess.IsAdmin() {
			respondError(c, http.StatusForbidden, "admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}

// cookiePointer is the server-side sign-in pointer: the profile id in the session cookie.
type cookiePointer struct {
	sess sessions.Session
}

func (p cookiePointer) Save(profile *store.Profile) error {
	p.sess.Set(sessionUserKey, profile.ID)
	return p.sess.Save()
}

func (p cookiePointer) Clear() error {
	p.sess.Clear()
	return p.sess.Save()
}
