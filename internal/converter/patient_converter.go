package converter

import (
	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		FirstName: patient.FirstName,
		LastName:  patient.LastName,
		Email:     patient.Email,
		Phone:     patient.Phone,
		Age:       patient.Age,
		CreatedAt: patient.CreatedAt.UTC(),
		UpdatedAt: patient.UpdatedAt.UTC(),
	}
}
