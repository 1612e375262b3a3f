package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-scheduler/config"
	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/metrics"
	"clinic-scheduler/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// newTestRouter wires handlers without usecases; only routes that stop in
// middleware may be exercised.
func newTestRouter() *mux.Router {
	v := validator.NewValidator()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	m := metrics.New("clinic_scheduler_test")

	r := NewRouter(
		handler.NewAuthHandler(nil, v),
		handler.NewDoctorHandler(nil, nil, v),
		handler.NewPatientHandler(nil, v),
		handler.NewRoomHandler(nil, v),
		handler.NewTreatmentHandler(nil, v),
		handler.NewSpecializationHandler(nil, v),
		handler.NewAppointmentHandler(nil, v),
		handler.NewAuditLogHandler(nil, v),
		middleware.NewAuthMiddleware(jwt.NewJWTService(config.JWTConfig{Secret: "test-secret"}), nil),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
		middleware.NewMetricsMiddleware(m),
	)
	r.WithMetricsEndpoint("/metrics", m.Handler())
	return r.Setup()
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic_scheduler_test_http_requests_total")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/doctors"},
		{http.MethodPost, "/api/v1/doctors"},
		{http.MethodGet, "/api/v1/doctors/6a1f0c1e-3f57-4a57-9e57-0c2d7a0f8d11/available-slots"},
		{http.MethodPost, "/api/v1/appointments"},
		{http.MethodPatch, "/api/v1/appointments/6a1f0c1e-3f57-4a57-9e57-0c2d7a0f8d11"},
		{http.MethodPost, "/api/v1/appointments/conflicts"},
		{http.MethodGet, "/api/v1/admin/audit-logs"},
	}
	for _, rt := range routes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
