package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/infrastructure/database"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoctorRouter(t *testing.T) *mux.Router {
	t.Helper()

	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := logrus.New()
	log.SetOutput(io.Discard)

	doctorRepo := repository.NewDoctorRepository()
	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())

	doctors := usecase.NewDoctorUsecase(db, log, doctorRepo, repository.NewSpecializationRepository(), auditService)
	availability := usecase.NewAvailabilityUsecase(db, log, doctorRepo, repository.NewTreatmentRepository(),
		repository.NewRoomRepository(), repository.NewAppointmentRepository(), 15*time.Minute)

	h := NewDoctorHandler(doctors, availability, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/doctors", h.CreateDoctor).Methods(http.MethodPost)
	r.HandleFunc("/doctors/{id}", h.GetDoctor).Methods(http.MethodGet)
	r.HandleFunc("/doctors/{id}/working-schedule", h.UpdateWorkingSchedule).Methods(http.MethodPut)
	r.HandleFunc("/doctors/{id}/working-window", h.GetWorkingWindow).Methods(http.MethodGet)
	r.HandleFunc("/doctors/{id}/available-slots", h.GetAvailableSlots).Methods(http.MethodGet)
	return r
}

func createDoctor(t *testing.T, r http.Handler) uuid.UUID {
	t.Helper()
	rec := serve(r, http.MethodPost, "/doctors", `{"full_name":"Dr. Ayu Lestari","email":"ayu@clinic.test"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doctor dto.DoctorResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &doctor))
	return doctor.ID
}

func TestDoctorHandler_CreateValidation(t *testing.T) {
	r := newDoctorRouter(t)

	rec := serve(r, http.MethodPost, "/doctors", `{"full_name":"A","email":"not-an-email"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Error, &fields))
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "email")
}

func TestDoctorHandler_WorkingWindow(t *testing.T) {
	r := newDoctorRouter(t)
	id := createDoctor(t, r)

	rec := serve(r, http.MethodGet, "/doctors/"+id.String()+"/working-window?date=2024-07-01", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var window dto.WorkingWindowResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &window))
	assert.True(t, window.IsWorking)
	assert.False(t, window.ExceptionApplied)
	assert.Equal(t, "Monday", window.Weekday)
	assert.Equal(t, "09:00", window.Start)
	assert.Equal(t, "17:00", window.End)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/doctors/"+id.String()+"/working-window", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/doctors/"+id.String()+"/working-window?date=01-07-2024", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/doctors/"+uuid.NewString()+"/working-window?date=2024-07-01", "").Code)
}

func TestDoctorHandler_AvailableSlots(t *testing.T) {
	r := newDoctorRouter(t)
	id := createDoctor(t, r)
	base := "/doctors/" + id.String() + "/available-slots"

	rec := serve(r, http.MethodGet, base+"?date=2024-07-01&duration_minutes=60", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var slots dto.AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &slots))
	// 09:00 through 16:00 every 15 minutes
	assert.Len(t, slots.Slots, 29)
	assert.Equal(t, 60, slots.DurationMinutes)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing date", "?duration_minutes=30", http.StatusBadRequest},
		{"non numeric duration", "?date=2024-07-01&duration_minutes=half", http.StatusBadRequest},
		{"no duration or treatment", "?date=2024-07-01", http.StatusBadRequest},
		{"bad treatment id", "?date=2024-07-01&treatment_id=x", http.StatusBadRequest},
		{"unknown treatment", "?date=2024-07-01&treatment_id=" + uuid.NewString(), http.StatusNotFound},
		{"unknown room", "?date=2024-07-01&duration_minutes=30&room_id=" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(r, http.MethodGet, base+tt.query, "").Code)
		})
	}
}

func TestDoctorHandler_UpdateWorkingSchedule(t *testing.T) {
	r := newDoctorRouter(t)
	id := createDoctor(t, r)

	week := `{"monday":{"is_working":true,"hours":{"start":"09:00","end":"17:00"}},` +
		`"tuesday":{"is_working":true,"hours":{"start":"09:00","end":"17:00"}},` +
		`"wednesday":{"is_working":false},"thursday":{"is_working":false},` +
		`"friday":{"is_working":false},"saturday":{"is_working":false},"sunday":{"is_working":false}}`
	body := `{"working_days":` + week + `,"working_days_exceptions":[{"date":"2024-07-01","is_working":false}]}`

	rec := serve(r, http.MethodPut, "/doctors/"+id.String()+"/working-schedule", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(r, http.MethodGet, "/doctors/"+id.String()+"/working-window?date=2024-07-01", "")
	var window dto.WorkingWindowResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &window))
	assert.False(t, window.IsWorking)
	assert.True(t, window.ExceptionApplied)

	rec = serve(r, http.MethodGet, "/doctors/"+id.String()+"/available-slots?date=2024-07-01&duration_minutes=30", "")
	var slots dto.AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &slots))
	assert.Empty(t, slots.Slots)

	// Exceptions alone keep the weekly defaults set above.
	rec = serve(r, http.MethodPut, "/doctors/"+id.String()+"/working-schedule", `{"working_days_exceptions":[]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(r, http.MethodGet, "/doctors/"+id.String()+"/working-window?date=2024-07-01", "")
	window = dto.WorkingWindowResponse{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &window))
	assert.True(t, window.IsWorking)
	assert.False(t, window.ExceptionApplied)

	rec = serve(r, http.MethodGet, "/doctors/"+id.String()+"/working-window?date=2024-07-03", "")
	window = dto.WorkingWindowResponse{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &window))
	assert.False(t, window.IsWorking)

	inverted := `{"working_days":{"monday":{"is_working":true,"hours":{"start":"17:00","end":"09:00"}}}}`
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPut, "/doctors/"+id.String()+"/working-schedule", inverted).Code)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPut, "/doctors/"+id.String()+"/working-schedule", `{}`).Code)
}
