package http

import (
	"net/http"

	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	doctorHandler         *handler.DoctorHandler
	patientHandler        *handler.PatientHandler
	roomHandler           *handler.RoomHandler
	treatmentHandler      *handler.TreatmentHandler
	specializationHandler *handler.SpecializationHandler
	appointmentHandler    *handler.AppointmentHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	loggingMiddleware     *middleware.LoggingMiddleware
	metricsMiddleware     *middleware.MetricsMiddleware
	metricsPath           string
	metricsHandler        http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	roomHandler *handler.RoomHandler,
	treatmentHandler *handler.TreatmentHandler,
	specializationHandler *handler.SpecializationHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		doctorHandler:         doctorHandler,
		patientHandler:        patientHandler,
		roomHandler:           roomHandler,
		treatmentHandler:      treatmentHandler,
		specializationHandler: specializationHandler,
		appointmentHandler:    appointmentHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		loggingMiddleware:     loggingMiddleware,
		metricsMiddleware:     metricsMiddleware,
	}
}

// WithMetricsEndpoint exposes the prometheus handler at path, outside /api/v1
// and without authentication.
func (r *Router) WithMetricsEndpoint(path string, h http.Handler) *Router {
	r.metricsPath = path
	r.metricsHandler = h
	return r
}

func (r *Router) Setup() *mux.Router {
	// Preflight requests must match a route for the CORS middleware to run.
	// A method matcher here would turn every unknown path into a 405.
	r.router.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if r.metricsHandler != nil {
		r.router.Handle(r.metricsPath, r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	r.staffRoutes(protected.NewRoute().Subrouter())

	frontDesk := protected.NewRoute().Subrouter()
	frontDesk.Use(middleware.RequireFrontDesk)
	r.frontDeskRoutes(frontDesk)

	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)
	r.adminRoutes(admin)

	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.metricsMiddleware.Handle)

	return r.router
}

// staffRoutes are open to every authenticated role, doctors included.
func (r *Router) staffRoutes(s *mux.Router) {
	s.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	s.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	s.HandleFunc("/doctors/{id}/working-window", r.doctorHandler.GetWorkingWindow).Methods(http.MethodGet)
	s.HandleFunc("/doctors/{id}/available-slots", r.doctorHandler.GetAvailableSlots).Methods(http.MethodGet)

	s.HandleFunc("/patients", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	s.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)

	s.HandleFunc("/rooms", r.roomHandler.GetAllRooms).Methods(http.MethodGet)
	s.HandleFunc("/rooms/{id}", r.roomHandler.GetRoom).Methods(http.MethodGet)

	s.HandleFunc("/treatments", r.treatmentHandler.GetAllTreatments).Methods(http.MethodGet)
	s.HandleFunc("/treatments/{id}", r.treatmentHandler.GetTreatment).Methods(http.MethodGet)

	s.HandleFunc("/specializations", r.specializationHandler.GetAllSpecializations).Methods(http.MethodGet)
	s.HandleFunc("/specializations/{id}", r.specializationHandler.GetSpecialization).Methods(http.MethodGet)

	s.HandleFunc("/appointments", r.appointmentHandler.GetAllAppointments).Methods(http.MethodGet)
	s.HandleFunc("/appointments/conflicts", r.appointmentHandler.CheckConflicts).Methods(http.MethodPost)
	s.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	s.HandleFunc("/appointments/{id}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPatch)
}

// frontDeskRoutes are for admins and receptionists.
func (r *Router) frontDeskRoutes(s *mux.Router) {
	s.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	s.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	s.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)

	s.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	s.HandleFunc("/appointments/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)
}

func (r *Router) adminRoutes(s *mux.Router) {
	// Doctor management
	s.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	s.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	s.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)
	s.HandleFunc("/doctors/{id}/working-schedule", r.doctorHandler.UpdateWorkingSchedule).Methods(http.MethodPut)

	// Clinic catalog
	s.HandleFunc("/rooms", r.roomHandler.CreateRoom).Methods(http.MethodPost)
	s.HandleFunc("/rooms/{id}", r.roomHandler.UpdateRoom).Methods(http.MethodPut)
	s.HandleFunc("/rooms/{id}", r.roomHandler.DeleteRoom).Methods(http.MethodDelete)

	s.HandleFunc("/treatments", r.treatmentHandler.CreateTreatment).Methods(http.MethodPost)
	s.HandleFunc("/treatments/{id}", r.treatmentHandler.UpdateTreatment).Methods(http.MethodPut)
	s.HandleFunc("/treatments/{id}", r.treatmentHandler.DeleteTreatment).Methods(http.MethodDelete)

	s.HandleFunc("/specializations", r.specializationHandler.CreateSpecialization).Methods(http.MethodPost)
	s.HandleFunc("/specializations/{id}", r.specializationHandler.UpdateSpecialization).Methods(http.MethodPut)
	s.HandleFunc("/specializations/{id}", r.specializationHandler.DeleteSpecialization).Methods(http.MethodDelete)

	// Staff accounts and audit trail
	s.HandleFunc("/admin/users", r.authHandler.CreateUser).Methods(http.MethodPost)
	s.HandleFunc("/admin/users", r.authHandler.GetAllUsers).Methods(http.MethodGet)
	s.HandleFunc("/admin/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	s.HandleFunc("/admin/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
