package handlers

import (
	"net/http"
	"time"

	"medigate/middleware"
	"medigate/services/helpdesk"
	"medigate/utils"

	"github.com/gin-gonic/gin"
)

// HelpdeskHandler serves the scheduling screens' availability queries.
type HelpdeskHandler struct {
	Service helpdesk.HelpdeskService
}

func NewHelpdeskHandler(service helpdesk.HelpdeskService) *HelpdeskHandler {
	return &HelpdeskHandler{Service: service}
}

// AvailabilityHandler returns the day's bookable sub-slot offers.
func (h *HelpdeskHandler) AvailabilityHandler(c *gin.Context) {
	gw, ok := middleware.GatewayFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	offers, err := h.Service.GetDayAvailability(c.Request.Context(), gw, date)
	if err != nil {
		if _, perr := time.Parse("2006-01-02", date); perr != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid date", "want YYYY-MM-DD")
			return
		}
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}
