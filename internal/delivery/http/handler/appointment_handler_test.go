package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"patient-encounter-api/internal/delivery/dto"
	"patient-encounter-api/internal/usecase"
	"patient-encounter-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// -- Mock usecase --

type mockAppointmentUsecase struct {
	appointments map[uuid.UUID]*dto.AppointmentResponse
	createErr    error
	listErr      error
}

func newMockAppointmentUsecase() *mockAppointmentUsecase {
	return &mockAppointmentUsecase{appointments: make(map[uuid.UUID]*dto.AppointmentResponse)}
}

func (m *mockAppointmentUsecase) CreateAppointment(_ context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, usecase.ErrInvalidStartTime
	}
	start = start.UTC()
	resp := &dto.AppointmentResponse{
		ID:              uuid.New(),
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		StartAt:         start,
		EndAt:           start.Add(time.Duration(req.DurationMinutes) * time.Minute),
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
		CreatedAt:       time.Now().UTC(),
	}
	m.appointments[resp.ID] = resp
	return resp, nil
}

func (m *mockAppointmentUsecase) GetAppointment(_ context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return nil, usecase.ErrAppointmentNotFound
	}
	return appt, nil
}

func (m *mockAppointmentUsecase) ListAppointments(_ context.Context, date string, _ *uuid.UUID) (*dto.AppointmentListResponse, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, usecase.ErrInvalidDateFilter
	}
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Total: 0}, nil
}

// -- Helpers --

func newAppointmentRouter(u usecase.AppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(u, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

// -- Tests --

func TestCreateAppointment(t *testing.T) {
	router := newAppointmentRouter(newMockAppointmentUsecase())

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]interface{}{
		"patient_id":       uuid.New().String(),
		"doctor_id":        uuid.New().String(),
		"start_at":         "2026-01-30T09:00:00-05:00",
		"duration_minutes": 30,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	if envelope["success"] != true {
		t.Error("expected success envelope")
	}
	data := envelope["data"].(map[string]interface{})
	// non-UTC input must come back as the equivalent UTC instant
	if data["start_at"] != "2026-01-30T14:00:00Z" {
		t.Errorf("start_at = %v, want 2026-01-30T14:00:00Z", data["start_at"])
	}
	if data["end_at"] != "2026-01-30T14:30:00Z" {
		t.Errorf("end_at = %v, want 2026-01-30T14:30:00Z", data["end_at"])
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	router := newAppointmentRouter(newMockAppointmentUsecase())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"duration below minimum", map[string]interface{}{
			"patient_id": uuid.New().String(), "doctor_id": uuid.New().String(),
			"start_at": "2026-01-30T09:00:00Z", "duration_minutes": 14,
		}},
		{"duration above maximum", map[string]interface{}{
			"patient_id": uuid.New().String(), "doctor_id": uuid.New().String(),
			"start_at": "2026-01-30T09:00:00Z", "duration_minutes": 181,
		}},
		{"missing doctor", map[string]interface{}{
			"patient_id": uuid.New().String(),
			"start_at":   "2026-01-30T09:00:00Z", "duration_minutes": 30,
		}},
		{"malformed doctor id", map[string]interface{}{
			"patient_id": uuid.New().String(), "doctor_id": "not-a-uuid",
			"start_at": "2026-01-30T09:00:00Z", "duration_minutes": 30,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/appointments", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d, body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestCreateAppointmentMissingOffset(t *testing.T) {
	u := newMockAppointmentUsecase()
	u.createErr = usecase.ErrInvalidStartTime
	router := newAppointmentRouter(u)

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]interface{}{
		"patient_id": uuid.New().String(), "doctor_id": uuid.New().String(),
		"start_at": "2026-01-30 09:00:00", "duration_minutes": 30,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	conflictID := uuid.New()
	u := newMockAppointmentUsecase()
	u.createErr = &usecase.ConflictError{
		AppointmentID: conflictID,
		Start:         time.Date(2026, 1, 30, 14, 0, 0, 0, time.UTC),
		End:           time.Date(2026, 1, 30, 15, 0, 0, 0, time.UTC),
	}
	router := newAppointmentRouter(u)

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]interface{}{
		"patient_id": uuid.New().String(), "doctor_id": uuid.New().String(),
		"start_at": "2026-01-30T14:30:00Z", "duration_minutes": 30,
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	envelope := decodeEnvelope(t, rec)
	errData := envelope["error"].(map[string]interface{})
	if errData["conflicting_appointment_id"] != conflictID.String() {
		t.Errorf("conflicting_appointment_id = %v, want %s", errData["conflicting_appointment_id"], conflictID)
	}
	if errData["conflicting_start"] != "2026-01-30T14:00:00Z" {
		t.Errorf("conflicting_start = %v", errData["conflicting_start"])
	}
}

func TestCreateAppointmentUnknownReferences(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"doctor not found", usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"patient not found", usecase.ErrPatientNotFound, http.StatusNotFound},
		{"doctor inactive", usecase.ErrDoctorNotActive, http.StatusBadRequest},
		{"appointment in past", usecase.ErrAppointmentInPast, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newMockAppointmentUsecase()
			u.createErr = tt.err
			router := newAppointmentRouter(u)

			rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]interface{}{
				"patient_id": uuid.New().String(), "doctor_id": uuid.New().String(),
				"start_at": "2026-01-30T09:00:00Z", "duration_minutes": 30,
			})
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGetAppointment(t *testing.T) {
	u := newMockAppointmentUsecase()
	created, err := u.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		PatientID: uuid.New(), DoctorID: uuid.New(),
		StartAt: "2026-01-30T09:00:00Z", DurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	router := newAppointmentRouter(u)

	rec := doJSON(t, router, http.MethodGet, "/appointments/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/appointments/"+uuid.New().String(), nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/appointments/abc", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestListAppointments(t *testing.T) {
	router := newAppointmentRouter(newMockAppointmentUsecase())

	t.Run("missing date", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/appointments", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/appointments?date=30-01-2026", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("valid date with no appointments", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/appointments?date=2026-01-30", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		envelope := decodeEnvelope(t, rec)
		data := envelope["data"].(map[string]interface{})
		if data["total"] != float64(0) {
			t.Errorf("total = %v, want 0", data["total"])
		}
	})

	t.Run("malformed doctor filter", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/appointments?date=2026-01-30&doctor_id=nope", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}
