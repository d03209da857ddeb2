package appointment

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"medigate/config"
	"medigate/gateway"
	"medigate/models"
	"medigate/services/tasks"
	"medigate/utils"

	"go.uber.org/zap"
)

// AppointmentService relays appointment operations to the backend and
// schedules a reminder for every booking that sticks.
type AppointmentService interface {
	Book(ctx context.Context, gw *gateway.SessionGateway, req models.BookingRequest) (*models.Appointment, error)
	List(ctx context.Context, gw *gateway.SessionGateway, patientID string) ([]models.Appointment, error)
	Cancel(ctx context.Context, gw *gateway.SessionGateway, appointmentID string) error
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Reminders *tasks.ReminderScheduler
}

func (s *DefaultAppointmentService) Book(ctx context.Context, gw *gateway.SessionGateway, req models.BookingRequest) (*models.Appointment, error) {
	var appt models.Appointment
	if err := gw.Post(ctx, "/appointments", req, &appt); err != nil {
		return nil, err
	}
	s.scheduleReminder(appt)
	return &appt, nil
}

func (s *DefaultAppointmentService) List(ctx context.Context, gw *gateway.SessionGateway, patientID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	path := "/appointments?patientId=" + url.QueryEscape(patientID)
	if err := gw.Get(ctx, path, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *DefaultAppointmentService) Cancel(ctx context.Context, gw *gateway.SessionGateway, appointmentID string) error {
	return gw.Delete(ctx, "/appointments/"+url.PathEscape(appointmentID), nil)
}

// scheduleReminder enqueues the pre-appointment reminder. Failures are
// logged, never surfaced: the booking already succeeded upstream.
func (s *DefaultAppointmentService) scheduleReminder(appt models.Appointment) {
	if s.Reminders == nil {
		return
	}
	logger := utils.GetLogger()

	startAt, err := time.ParseInLocation("2006-01-02 3:04 PM", appt.Date+" "+appt.StartTime, time.Local)
	if err != nil {
		logger.Warn("cannot schedule reminder for unparseable appointment time",
			zap.String("appointmentID", appt.ID),
			zap.String("date", appt.Date),
			zap.String("startTime", appt.StartTime))
		return
	}

	lead := time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour
	fireAt := startAt.Add(-lead)
	if fireAt.Before(time.Now()) {
		// Same-day bookings inside the lead window get no reminder.
		return
	}

	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		Title:         "Upcoming appointment",
		Body:          fmt.Sprintf("Your %s appointment is on %s at %s.", appt.Department, appt.Date, appt.StartTime),
		FireDate:      fireAt.Format(time.RFC3339),
	}
	if err := s.Reminders.Schedule(payload, fireAt); err != nil {
		logger.Warn("failed to enqueue appointment reminder",
			zap.String("appointmentID", appt.ID),
			zap.Error(err))
	}
}
