package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/ramadan-companion/internal/identity"
	"github.com/smokyabdulrahman/ramadan-companion/internal/prayer"
	"github.com/smokyabdulrahman/ramadan-companion/internal/store"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, identity.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, identity.ErrIdentityNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrInvalidName), errors.Is(err, store.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, prayer.ErrUnavailable),
		errors.Is(err, identity.ErrOperationFailed),
		errors.Is(err, identity.ErrSignupNotSaved),
		errors.Is(err, store.ErrOperationFailed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondErr(c *gin.Context, err error) {
	respondError(c, statusFor(err), err.Error())
}
