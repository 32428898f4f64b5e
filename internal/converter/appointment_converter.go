package converter

import (
	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// All instants are emitted in UTC regardless of the session timezone the row
// was read with.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		DoctorID:        appointment.DoctorID,
		StartAt:         appointment.StartAt.UTC(),
		EndAt:           appointment.End().UTC(),
		DurationMinutes: appointment.DurationMinutes,
		Reason:          appointment.Reason,
		CreatedAt:       appointment.CreatedAt.UTC(),
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
