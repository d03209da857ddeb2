package handlers

import (
	"net/http"
	"time"

	"medigate/middleware"
	"medigate/models"
	"medigate/services/session"
	"medigate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler proxies login/logout to the backend and manages the browser's
// session cookie.
type AuthHandler struct {
	Sessions session.SessionService
}

func NewAuthHandler(sessions session.SessionService) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// LoginHandler authenticates against the backend and issues a session ID.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Sessions.Login(c.Request.Context(), creds)
	if err != nil {
		utils.GetLogger().Warn("login failed", zap.Error(err))
		respondUpstreamError(c, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookie, result.SessionID, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, result)
}

// LogoutHandler tears the session down; runs behind the session middleware.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	sessionID := c.GetString("sessionID")
	if err := h.Sessions.Logout(c.Request.Context(), sessionID); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
