package handlers

import (
	"net/http"

	"medigate/middleware"
	"medigate/models"
	"medigate/services/appointment"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler relays appointment booking, listing and cancellation.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

func NewAppointmentHandler(service appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// BookAppointmentHandler books an appointment through the backend.
func (h *AppointmentHandler) BookAppointmentHandler(c *gin.Context) {
	gw, ok := middleware.GatewayFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), gw, req)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListAppointmentsHandler lists a patient's appointments.
func (h *AppointmentHandler) ListAppointmentsHandler(c *gin.Context) {
	gw, ok := middleware.GatewayFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	patientID := c.Query("patientId")
	if patientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientId is required"})
		return
	}

	appts, err := h.Service.List(c.Request.Context(), gw, patientID)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// CancelAppointmentHandler cancels an appointment.
func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	gw, ok := middleware.GatewayFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return
	}

	id := c.Param("id")
	if err := h.Service.Cancel(c.Request.Context(), gw, id); err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment cancelled"})
}
