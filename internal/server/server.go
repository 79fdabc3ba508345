// Package server exposes the companion over a JSON HTTP API for the web client.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ramadan-companion/internal/api"
	"github.com/smokyabdulrahman/ramadan-companion/internal/geo"
	"github.com/smokyabdulrahman/ramadan-companion/internal/identity"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/schedule"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

const sessionCookieName = "ramadan_session"

// QuranSource lists the surahs of the Quran and serves their text.
type QuranSource interface {
	Surahs(ctx context.Context) ([]api.Surah, error)
	Surah(ctx context.Context, number int) (*api.SurahText, error)
}

// Deps are the services the handlers call.
type Deps struct {
	Store    *store.Store
	Prayers  *prayer.Resolver
	Schedule *schedule.Table
	Quran    QuranSource // optional
}

// Options configure the HTTP surface.
type Options struct {
	SessionSecret string
	Origins       []string
	// Coordinates are used when a prayer request carries no lat/lon.
	Coordinates geo.Coordinates
	Now         func() time.Time
}

// Server holds the router and its dependencies.
type Server struct {
	deps      Deps
	identity  *identity.Resolver
	sanitizer *bluemonday.Policy
	opts      Options
	router    *gin.Engine
}

// New builds a Server and registers every route.
func New(deps Deps, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Coordinates == (geo.Coordinates{}) {
		opts.Coordinates = geo.Fallback
	}
	if deps.Schedule == nil {
		deps.Schedule = schedule.Default
	}
	if opts.SessionSecret == "" {
		log.Warn().Msg("no session secret configured, sessions will not survive a restart")
		opts.SessionSecret = uuid.NewString() + uuid.NewString()
	}

	s := &Server{
		deps:      deps,
		identity:  identity.NewResolver(deps.Store.Profiles),
		sanitizer: bluemonday.StrictPolicy(),
		opts:      opts,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if len(s.opts.Origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.Origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	cookieStore := cookie.NewStore([]byte(s.opts.SessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((90 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, cookieStore))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(s.loadProfile())
	{
		auth := apiGroup.Group("/auth")
		auth.POST("/signup", s.signup)
		auth.POST("/login", s.login)
		auth.POST("/logout", s.logout)
		auth.GET("/me", s.me)

		apiGroup.GET("/prayer/today", s.prayerToday)
		apiGroup.GET("/prayer/calendar", s.prayerCalendar)
		apiGroup.GET("/schedule", s.scheduleDays)
		apiGroup.GET("/schedule/today", s.scheduleToday)

		apiGroup.GET("/fasting", s.getFasting)
		apiGroup.GET("/journal", s.listJournal)
		apiGroup.GET("/water", s.getWater)
		apiGroup.GET("/checklist", s.getChecklist)
		apiGroup.GET("/quran/last-read", s.getLastRead)
		apiGroup.GET("/quran/paras", s.getParas)
		apiGroup.GET("/quran/surah/:n", s.getSurah)

		user := apiGroup.Group("")
		user.Use(requireLogin())
		user.PUT("/fasting", s.putFasting)
		user.POST("/journal", s.addJournal)
		user.PUT("/water", s.putWater)
		user.PUT("/checklist", s.putChecklist)
		user.PUT("/quran/last-read", s.putLastRead)
		user.PUT("/quran/paras", s.putParas)

		admin := apiGroup.Group("/admin")
		admin.Use(requireAdmin())
		admin.GET("/overrides", s.listOverrides)
		admin.PUT("/overrides", s.putOverride)
		admin.POST("/overrides/bulk", s.bulkOverrides)
		admin.DELETE("/overrides/:date", s.deleteOverride)
		admin.GET("/stats", s.stats)
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
