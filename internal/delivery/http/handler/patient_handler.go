package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/internal/usecase"
	"patient-encounter-api/pkg/response"
	"patient-encounter-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrPatientEmailExists {
			response.Error(w, http.StatusConflict, "A patient with this email already exists", nil)
			return
		}
		response.InternalServerError(w, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), patientID)
	if err != nil {
		if err == usecase.ErrPatientNotFound {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalServerError(w, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	err = h.patientUsecase.DeletePatient(r.Context(), patientID)
	if err != nil {
		var refErr *usecase.ReferentialIntegrityError
		switch {
		case err == usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case errors.As(err, &refErr):
			response.Error(w, http.StatusConflict,
				fmt.Sprintf("Patient has %d appointment(s) and cannot be deleted", refErr.Count),
				map[string]interface{}{"blocking_appointments": refErr.Count})
		default:
			response.InternalServerError(w, "Failed to delete patient")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}
