package entity

import (
	"time"

	"github.com/google/uuid"
)

// Appointment duration bounds in minutes
const (
	MinAppointmentDuration = 15
	MaxAppointmentDuration = 180
)

// Appointment represents a scheduled medical encounter between a doctor
// and a patient. Appointments are immutable once created; there is no
// reschedule or cancel operation.
//
// StartAt is always stored in UTC. The end of the appointment is derived
// from the duration and never persisted.
type Appointment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_doctor_start" json:"doctor_id"`
	StartAt         time.Time `gorm:"type:timestamptz;not null;index:idx_appointments_doctor_start" json:"start_at"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Reason          string    `gorm:"type:varchar(500)" json:"reason,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// End returns the derived end instant: start + duration.
func (a *Appointment) End() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the half-open interval [start, end) intersects
// this appointment's [StartAt, End()). Touching endpoints do not overlap:
// an appointment ending at 10:00 does not conflict with one starting at 10:00.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && start.Before(a.End())
}

// FindConflict scans the given appointments for the first one whose interval
// overlaps [start, end). The caller is responsible for supplying only
// appointments belonging to a single doctor; appointments of other doctors
// must never be compared. Returns nil when no overlap exists.
func FindConflict(existing []Appointment, start, end time.Time) *Appointment {
	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return &existing[i]
		}
	}
	return nil
}

// ValidDuration reports whether d is within the allowed appointment
// duration bounds, inclusive on both ends.
func ValidDuration(d int) bool {
	return d >= MinAppointmentDuration && d <= MaxAppointmentDuration
}
