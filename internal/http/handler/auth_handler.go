package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Arijit634/job-management-api/internal/service"
)

// AuthHandler exposes the session endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// Login authenticates the credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Username and password are required."})
		return
	}

	resp, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "error_description": "Wrong username or password."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Login failed."})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Username and password are required."})
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username_taken", "error_description": "Username already taken."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Registration failed."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
	})
}

// Logout revokes the presented bearer token. Always 200; the body says
// whether a session was actually ended.
func (h *AuthHandler) Logout(c *gin.Context) {
	outcome := h.Auth.Logout(c.GetHeader("Authorization"))
	c.JSON(http.StatusOK, gin.H{"message": outcome.Message()})
}

// BlacklistSize reports the revocation store size.
func (h *AuthHandler) BlacklistSize(c *gin.Context) {
	c.JSON(http.StatusOK, h.Auth.BlacklistSize())
}
