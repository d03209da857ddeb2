package models

import "time"

// Appointment represents an appointment record owned by the hospital backend.
type Appointment struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	DoctorID   string    `json:"doctorId"`
	Department string    `json:"department"`
	Date       string    `json:"date"`     // "2006-01-02"
	TimeSlot   string    `json:"timeSlot"` // hourly window label, e.g. "9:00 AM - 10:00 AM"
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	Status     string    `json:"status"` // "scheduled", "completed", "cancelled"
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookingRequest is the payload a client submits to book an appointment.
type BookingRequest struct {
	PatientID  string `json:"patientId"`
	DoctorID   string `json:"doctorId"`
	Department string `json:"department"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
	Reason     string `json:"reason,omitempty"`
}
