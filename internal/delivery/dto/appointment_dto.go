package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	// RFC 3339 with explicit offset, e.g. 2026-01-30T09:00:00-05:00
	StartAt         string `json:"start_at" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gte=15,lte=180"`
	Reason          string `json:"reason" validate:"omitempty,max=500"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
