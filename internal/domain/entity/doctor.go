package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor represents a healthcare provider who can be scheduled
type Doctor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization string    `gorm:"type:varchar(255);not null;index" json:"specialization"`
	IsActive       *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Active reports whether the doctor can accept new appointments.
// A nil IsActive means the column default (true) has not been loaded yet.
func (d *Doctor) Active() bool {
	return d.IsActive == nil || *d.IsActive
}
