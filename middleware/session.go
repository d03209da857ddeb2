package middleware

import (
	"errors"
	"net/http"

	"medigate/gateway"
	"medigate/services/session"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the browser's session ID; a cookie fallback keeps
// plain <a href> navigation working.
const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "mg_session"
)

// SessionMiddleware resolves the caller's session and puts its gateway into
// the gin context for handlers downstream.
func SessionMiddleware(sessions session.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}

		gw, err := sessions.Gateway(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, session.ErrUnknownSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, sign in again"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
			return
		}

		c.Set("sessionID", sessionID)
		c.Set("gateway", gw)
		c.Next()
	}
}

// GatewayFrom pulls the session's gateway out of the gin context.
func GatewayFrom(c *gin.Context) (*gateway.SessionGateway, bool) {
	v, ok := c.Get("gateway")
	if !ok {
		return nil, false
	}
	gw, ok := v.(*gateway.SessionGateway)
	return gw, ok
}
