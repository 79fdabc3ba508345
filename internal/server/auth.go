package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/ramadan-companion/internal/identity"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) signup(c *gin.Context) {
	s.resolveIdentity(c, identity.ModeSignup, http.StatusCreated)
}

func (s *Server) login(c *gin.Context) {
	s.resolveIdentity(c, identity.ModeLogin, http.StatusOK)
}

func (s *Server) resolveIdentity(c *gin.Context, mode identity.Mode, status int) {
	var req nameRequest
	if !bindJSON(c, &req, "request body must be {\"name\": ...}") {
		return
	}

	profile, err := s.identity.Resolve(c.Request.Context(), req.Name, mode, cookiePointer{sessions.Default(c)})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(status, profile)
}

func (s *Server) logout(c *gin.Context) {
	if err := identity.Logout(cookiePointer{sessions.Default(c)}); err != nil {
		respondError(c, http.StatusInternalServerError, "could not clear session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	profile := currentProfile(c)
	if profile == nil {
		respondError(c, http.StatusUnauthorized, "not signed in")
		return
	}
	c.JSON(http.StatusOK, profile)
}
