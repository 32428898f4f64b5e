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
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrDoctorNotActive = errors.New("doctor is not active")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	doctor := &entity.Doctor{
		FullName:       req.FullName,
		Specialization: req.Specialization,
		IsActive:       &isActive,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	responses := converter.DoctorsToResponses(doctors)

	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(doctor)

	// Update only provided fields
	if req.FullName != "" {
		doctor.FullName = req.FullName
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.IsActive != nil {
		doctor.IsActive = req.IsActive
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), oldValue, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor removes a doctor only when no appointment references it.
// Same check-then-delete shape as DeletePatient, with the FK RESTRICT
// constraint covering the race window.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	count, err := u.appointmentRepo.CountByDoctorID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to count appointments for doctor %s: %+v", doctorID, err)
		return err
	}
	if count > 0 {
		return &ReferentialIntegrityError{Entity: "doctor", ID: doctorID, Count: count}
	}

	if err := u.doctorRepo.Delete(tx, doctorID); err != nil {
		if isForeignKeyError(err, "doctor") {
			return &ReferentialIntegrityError{Entity: "doctor", ID: doctorID, Count: 1}
		}
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, entity.AuditActionDoctorDelete, "doctor", doctorID.String(), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
