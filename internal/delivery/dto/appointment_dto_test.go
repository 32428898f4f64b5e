package dto_test

import (
	"strings"
	"testing"

	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/pkg/validator"

	"github.com/google/uuid"
)

func validCreateAppointmentRequest() dto.CreateAppointmentRequest {
	return dto.CreateAppointmentRequest{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		StartAt:         "2026-01-30T09:00:00-05:00",
		DurationMinutes: 30,
		Reason:          "Annual checkup",
	}
}

func TestCreateAppointmentRequestValidation(t *testing.T) {
	cv := validator.NewValidator()

	t.Run("valid request", func(t *testing.T) {
		req := validCreateAppointmentRequest()
		if err := cv.Validate(&req); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("duration boundaries", func(t *testing.T) {
		tests := []struct {
			duration int
			valid    bool
		}{
			{14, false},
			{15, true},
			{180, true},
			{181, false},
		}
		for _, tt := range tests {
			req := validCreateAppointmentRequest()
			req.DurationMinutes = tt.duration
			err := cv.Validate(&req)
			if tt.valid && err != nil {
				t.Errorf("duration %d: expected valid, got %v", tt.duration, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("duration %d: expected validation failure", tt.duration)
			}
		}
	})

	t.Run("missing references", func(t *testing.T) {
		req := validCreateAppointmentRequest()
		req.PatientID = uuid.Nil
		req.DoctorID = uuid.Nil
		err := cv.Validate(&req)
		if err == nil {
			t.Fatal("expected validation failure for nil references")
		}
		fields := cv.FormatValidationErrors(err)
		if _, ok := fields["PatientID"]; !ok {
			t.Errorf("expected PatientID in validation errors, got %v", fields)
		}
		if _, ok := fields["DoctorID"]; !ok {
			t.Errorf("expected DoctorID in validation errors, got %v", fields)
		}
	})

	t.Run("reason too long", func(t *testing.T) {
		req := validCreateAppointmentRequest()
		req.Reason = strings.Repeat("x", 501)
		if err := cv.Validate(&req); err == nil {
			t.Error("expected validation failure for 501 character reason")
		}
	})

	t.Run("missing start", func(t *testing.T) {
		req := validCreateAppointmentRequest()
		req.StartAt = ""
		if err := cv.Validate(&req); err == nil {
			t.Error("expected validation failure for empty start_at")
		}
	})
}

func TestCreatePatientRequestValidation(t *testing.T) {
	cv := validator.NewValidator()

	valid := dto.CreatePatientRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Phone:     "5551234567",
		Age:       34,
	}

	if err := cv.Validate(&valid); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	t.Run("malformed email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		err := cv.Validate(&req)
		if err == nil {
			t.Fatal("expected validation failure")
		}
		fields := cv.FormatValidationErrors(err)
		if msg := fields["Email"]; !strings.Contains(msg, "valid email") {
			t.Errorf("expected email message, got %q", msg)
		}
	})

	t.Run("missing names", func(t *testing.T) {
		req := valid
		req.FirstName = ""
		req.LastName = ""
		if err := cv.Validate(&req); err == nil {
			t.Error("expected validation failure")
		}
	})
}

func TestCreateDoctorRequestValidation(t *testing.T) {
	cv := validator.NewValidator()

	valid := dto.CreateDoctorRequest{
		FullName:       "Dr. Gregory House",
		Specialization: "Diagnostics",
	}
	if err := cv.Validate(&valid); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	t.Run("short name", func(t *testing.T) {
		req := valid
		req.FullName = "X"
		if err := cv.Validate(&req); err == nil {
			t.Error("expected validation failure for one character name")
		}
	})

	t.Run("missing specialization", func(t *testing.T) {
		req := valid
		req.Specialization = ""
		if err := cv.Validate(&req); err == nil {
			t.Error("expected validation failure")
		}
	})
}
