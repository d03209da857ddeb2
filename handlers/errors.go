package handlers

import (
	"errors"
	"net/http"

	"medigate/gateway"

	"github.com/gin-gonic/gin"
)

// respondUpstreamError maps a gateway error onto the response the browser
// needs to pick its own message: backend-down, session-expired and plain
// HTTP failures all look different.
func respondUpstreamError(c *gin.Context, err error) {
	switch {
	case gateway.IsNetworkError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hospital backend unreachable", "network": true})
	case errors.Is(err, gateway.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, sign in again"})
	default:
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
