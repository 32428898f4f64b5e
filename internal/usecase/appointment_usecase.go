package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStartTime    = errors.New("start_at must be RFC 3339 with an explicit timezone offset")
	ErrAppointmentInPast   = errors.New("appointment must be scheduled in the future")
	ErrInvalidDuration     = errors.New("duration must be between 15 and 180 minutes")
	ErrInvalidDateFilter   = errors.New("invalid date format, use YYYY-MM-DD")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, date string, doctorID *uuid.UUID) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		auditService:    auditService,
	}
}

// CreateAppointment schedules a new appointment.
//
// Flow, all inside one transaction:
// 1. Parse and normalize the start instant to UTC
// 2. Lock the doctor row (FOR UPDATE), which serializes scheduling per doctor
// 3. Verify doctor exists and is active, verify patient exists
// 4. Fetch the doctor's appointments and run the overlap check
// 5. Insert + audit, commit
//
// Every check runs before the insert, so a failure on any path leaves no
// partial writes. The row lock closes the check-then-act window: of two
// concurrent overlapping requests for the same doctor, the second blocks
// on step 2 until the first commits, then sees its row in step 4.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	// time.RFC3339 requires an explicit offset, so naive timestamps fail here
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, ErrInvalidStartTime
	}
	startAt = startAt.UTC()

	if !entity.ValidDuration(req.DurationMinutes) {
		return nil, ErrInvalidDuration
	}

	if !startAt.After(time.Now().UTC()) {
		return nil, ErrAppointmentInPast
	}

	endAt := startAt.Add(time.Duration(req.DurationMinutes) * time.Minute)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByIDForUpdate(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Active() {
		return nil, ErrDoctorNotActive
	}

	patient, err := u.patientRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	existing, err := u.appointmentRepo.FindByDoctorID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}

	if conflict := entity.FindConflict(existing, startAt, endAt); conflict != nil {
		return nil, &ConflictError{
			AppointmentID: conflict.ID,
			Start:         conflict.StartAt.UTC(),
			End:           conflict.End().UTC(),
		}
	}

	appointment := &entity.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		StartAt:         startAt,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, start=%s, duration=%dm",
		appointment.ID, appointment.DoctorID, appointment.StartAt.Format(time.RFC3339), appointment.DurationMinutes)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments returns appointments whose UTC start falls on the given
// calendar date, ordered ascending by start. The optional doctorID narrows
// the listing to a single doctor. The result is computed fresh per call.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, date string, doctorID *uuid.UUID) (*dto.AppointmentListResponse, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDateFilter
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := u.appointmentRepo.FindByStartRange(u.db.WithContext(ctx), dayStart, dayEnd, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for %s: %+v", date, err)
		return nil, err
	}

	responses := converter.AppointmentsToResponses(appointments)

	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}, nil
}
