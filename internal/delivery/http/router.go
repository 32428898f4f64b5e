package http

import (
	"net/http"

	"patient-encounter-api/internal/delivery/http/handler"
	"patient-encounter-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	patientHandler      *handler.PatientHandler
	doctorHandler       *handler.DoctorHandler
	appointmentHandler  *handler.AppointmentHandler
	auditLogHandler     *handler.AuditLogHandler
	corsMiddleware      *middleware.CORSMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		patientHandler:      patientHandler,
		doctorHandler:       doctorHandler,
		appointmentHandler:  appointmentHandler,
		auditLogHandler:     auditLogHandler,
		corsMiddleware:      corsMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patient routes
	api.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)

	// Doctor routes
	api.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Appointment routes
	api.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)

	// Audit trail
	api.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)

	// Global middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimitMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
