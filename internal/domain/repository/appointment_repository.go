package repository

import (
	"time"

	"patient-encounter-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	// FindByStartRange returns appointments whose start falls in
	// [from, to), ordered ascending by start. A nil doctorID returns
	// appointments for all doctors.
	FindByStartRange(db *gorm.DB, from, to time.Time, doctorID *uuid.UUID) ([]entity.Appointment, error)
	CountByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
	CountByPatientID(db *gorm.DB, patientID uuid.UUID) (int64, error)
}
