package repository

import (
	"patient-encounter-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	// FindByIDForUpdate locks the doctor row for the duration of the
	// surrounding transaction. Used to serialize check-then-insert
	// scheduling against the same doctor.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
