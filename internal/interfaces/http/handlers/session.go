// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxaDeveloper/e-commerce-task/internal/domain/identity"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

// SessionHandler handles authentication and session endpoints
type SessionHandler struct {
	session *session.Session
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{session: sess}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// DeveloperModeRequest toggles the developer flag
type DeveloperModeRequest struct {
	Enabled bool `json:"enabled"`
}

// Login handles POST /session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.session.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    state,
	})
}

// Register handles POST /session/register
func (h *SessionHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.session.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"data":    state,
	})
}

// Logout handles POST /session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.session.Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Get handles GET /session
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    h.session.Auth(),
	})
}

// BecomeDevAdmin handles POST /session/dev-admin. The route is only
// registered in development and still requires the persisted developer-mode
// flag; it installs the shortcut admin identity without a backend round trip.
func (h *SessionHandler) BecomeDevAdmin(c *gin.Context) {
	if !h.session.Auth().DeveloperMode {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Developer mode is disabled",
		})
		return
	}

	h.session.SetCredentials(c.Request.Context(), "", identity.User{
		ID:    "admin",
		Email: identity.DevAdminEmail,
		Role:  identity.RoleAdmin,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Developer admin session installed",
		"data":    h.session.Auth(),
	})
}

// SetDeveloperMode handles PUT /session/developer-mode
func (h *SessionHandler) SetDeveloperMode(c *gin.Context) {
	var req DeveloperModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.session.SetDeveloperMode(c.Request.Context(), req.Enabled)

	c.JSON(http.StatusOK, gin.H{
		"message": "Developer mode updated",
		"data":    h.session.Auth(),
	})
}
