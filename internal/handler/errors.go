package handler

import (
	"errors"
	"net/http"

	"tasktracker/internal/response"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError translates a service error into the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		response.JSON(c, http.StatusUnauthorized, "Invalid token", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.JSON(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, service.ErrAlreadyExists):
		response.JSON(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrBadRequest):
		response.JSON(c, http.StatusBadRequest, err.Error(), nil)
	default:
		_ = c.Error(err)
		response.JSON(c, http.StatusInternalServerError, "Internal server error", gin.H{"error": err.Error()})
	}
}
