package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/internal/usecase"
	"patient-encounter-api/pkg/response"
	"patient-encounter-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		var conflictErr *usecase.ConflictError
		switch {
		case err == usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case err == usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case err == usecase.ErrDoctorNotActive:
			response.Error(w, http.StatusBadRequest, "Doctor is not active", nil)
		case err == usecase.ErrInvalidStartTime:
			response.Error(w, http.StatusBadRequest, "start_at must be RFC 3339 with an explicit timezone offset", nil)
		case err == usecase.ErrInvalidDuration:
			response.Error(w, http.StatusBadRequest, "Duration must be between 15 and 180 minutes", nil)
		case err == usecase.ErrAppointmentInPast:
			response.Error(w, http.StatusBadRequest, "Appointment must be scheduled in the future", nil)
		case errors.As(err, &conflictErr):
			response.Error(w, http.StatusConflict, "Doctor has a conflicting appointment at this time", map[string]interface{}{
				"conflicting_appointment_id": conflictErr.AppointmentID,
				"conflicting_start":          conflictErr.Start.Format(time.RFC3339),
				"conflicting_end":            conflictErr.End.Format(time.RFC3339),
			})
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		if err == usecase.ErrAppointmentNotFound {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Query parameter 'date' is required (YYYY-MM-DD)", nil)
		return
	}

	var doctorID *uuid.UUID
	if raw := r.URL.Query().Get("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
			return
		}
		doctorID = &id
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), date, doctorID)
	if err != nil {
		if err == usecase.ErrInvalidDateFilter {
			response.Error(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD (e.g., 2026-01-30)", nil)
			return
		}
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
