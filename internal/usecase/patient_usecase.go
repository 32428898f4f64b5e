package usecase

import (
	"context"
	"errors"

	"patient-encounter-api/internal/converter"
	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/internal/domain/entity"
	"patient-encounter-api/internal/domain/repository"
	"patient-encounter-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrPatientEmailExists = errors.New("a patient with this email already exists")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, patientID uuid.UUID) error
}

type patientUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:              db,
		log:             log,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient := &entity.Patient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Age:       req.Age,
	}

	if err := u.patientRepo.Create(tx, patient); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrPatientEmailExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, entity.AuditActionPatientCreate, "patient", patient.ID.String(), converter.PatientToResponse(patient)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

// DeletePatient removes a patient only when no appointment references it.
// The count and the delete run in one transaction; the foreign key
// ON DELETE RESTRICT in the schema backstops the window between them.
func (u *patientUsecase) DeletePatient(ctx context.Context, patientID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	count, err := u.appointmentRepo.CountByPatientID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to count appointments for patient %s: %+v", patientID, err)
		return err
	}
	if count > 0 {
		return &ReferentialIntegrityError{Entity: "patient", ID: patientID, Count: count}
	}

	if err := u.patientRepo.Delete(tx, patientID); err != nil {
		if isForeignKeyError(err, "patient") {
			// an appointment was inserted after the count
			return &ReferentialIntegrityError{Entity: "patient", ID: patientID, Count: 1}
		}
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, entity.AuditActionPatientDelete, "patient", patientID.String(), converter.PatientToResponse(patient)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
