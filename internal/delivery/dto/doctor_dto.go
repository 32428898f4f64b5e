package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2"`
	Specialization string `json:"specialization" validate:"required"`
	IsActive       *bool  `json:"is_active" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	FullName       string `json:"full_name" validate:"omitempty,min=2"`
	Specialization string `json:"specialization" validate:"omitempty"`
	IsActive       *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
	IsActive       *bool     `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
