// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

// respondError maps session and backend failures to HTTP status codes. Backend
// errors keep their upstream status when it is an HTTP error; business
// failures reported inside a 200 envelope become 422.
func respondError(c *gin.Context, err error) {
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, session.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, backend.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrStatusLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < 400 {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": apiErr.Message})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
