package repository

import (
	"patient-encounter-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
