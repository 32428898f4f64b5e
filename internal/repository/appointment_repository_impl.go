package repository

import (
	"errors"
	"time"

	"patient-encounter-api/internal/domain/entity"
	domainRepo "patient-encounter-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("doctor_id = ?", doctorID).Order("start_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByStartRange(db *gorm.DB, from, to time.Time, doctorID *uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Where("start_at >= ? AND start_at < ?", from, to)
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	}
	err := query.Order("start_at ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Where("doctor_id = ?", doctorID).Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountByPatientID(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Where("patient_id = ?", patientID).Count(&count).Error
	return count, err
}
