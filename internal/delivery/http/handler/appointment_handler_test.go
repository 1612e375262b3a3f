package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointmentUsecase struct {
	createErr error
	updateErr error
	checkResp *dto.ConflictCheckResponse

	created     *dto.CreateAppointmentRequest
	updatedID   uuid.UUID
	updated     *dto.UpdateAppointmentRequest
	listed      *dto.AppointmentListRequest
	deletedID   uuid.UUID
	requestedID uuid.UUID
}

func (f *fakeAppointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.created = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	end := req.StartTime.Add(30 * time.Minute)
	return &dto.AppointmentResponse{
		ID:        uuid.New(),
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		StartTime: req.StartTime,
		EndTime:   end,
		Status:    "BOOKED",
	}, nil
}

func (f *fakeAppointmentUsecase) UpdateAppointment(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.updatedID, f.updated = id, req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dto.AppointmentResponse{ID: id, Status: *req.Status}, nil
}

func (f *fakeAppointmentUsecase) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	f.deletedID = id
	return nil
}

func (f *fakeAppointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	f.requestedID = id
	return nil, usecase.ErrAppointmentNotFound
}

func (f *fakeAppointmentUsecase) GetAllAppointments(ctx context.Context, req *dto.AppointmentListRequest) (*dto.AppointmentListResponse, error) {
	f.listed = req
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
}

func (f *fakeAppointmentUsecase) CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	return f.checkResp, nil
}

func newAppointmentRouter(uc usecase.AppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments", h.GetAllAppointments).Methods(http.MethodGet)
	r.HandleFunc("/appointments/conflicts", h.CheckConflicts).Methods(http.MethodPost)
	r.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.UpdateAppointment).Methods(http.MethodPatch)
	r.HandleFunc("/appointments/{id}", h.DeleteAppointment).Methods(http.MethodDelete)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAppointmentHandler_Create(t *testing.T) {
	doctorID, patientID, treatmentID := uuid.New(), uuid.New(), uuid.New()
	body := `{"doctor_id":"` + doctorID.String() + `","patient_id":"` + patientID.String() +
		`","treatment_id":"` + treatmentID.String() + `","start_time":"2024-07-01T09:00:00Z"}`

	uc := &fakeAppointmentUsecase{}
	rec := serve(newAppointmentRouter(uc), http.MethodPost, "/appointments", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.created)
	assert.Equal(t, doctorID, uc.created.DoctorID)
	assert.Nil(t, uc.created.RoomID)
	assert.True(t, uc.created.StartTime.Equal(time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	var got dto.AppointmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "BOOKED", got.Status)
}

func TestAppointmentHandler_CreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"doctor_id":`},
		{"missing doctor", `{"patient_id":"` + uuid.NewString() + `","treatment_id":"` + uuid.NewString() + `","start_time":"2024-07-01T09:00:00Z"}`},
		{"bad payment status", `{"doctor_id":"` + uuid.NewString() + `","patient_id":"` + uuid.NewString() +
			`","treatment_id":"` + uuid.NewString() + `","start_time":"2024-07-01T09:00:00Z","payment_status":"LATER"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAppointmentUsecase{}
			rec := serve(newAppointmentRouter(uc), http.MethodPost, "/appointments", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.created)
		})
	}
}

func TestAppointmentHandler_CreateConflict(t *testing.T) {
	body := `{"doctor_id":"` + uuid.NewString() + `","patient_id":"` + uuid.NewString() +
		`","treatment_id":"` + uuid.NewString() + `","start_time":"2024-07-01T09:00:00Z"}`
	uc := &fakeAppointmentUsecase{createErr: &scheduling.ConflictError{Conflicts: []scheduling.Conflict{
		{Type: scheduling.ConflictTypeRoom, AppointmentID: uuid.New()},
	}}}

	rec := serve(newAppointmentRouter(uc), http.MethodPost, "/appointments", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"type":"room"`)
}

func TestAppointmentHandler_Update(t *testing.T) {
	id := uuid.New()
	uc := &fakeAppointmentUsecase{}

	rec := serve(newAppointmentRouter(uc), http.MethodPatch, "/appointments/"+id.String(), `{"status":"ONGOING"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, uc.updatedID)
	require.NotNil(t, uc.updated.Status)
	assert.Equal(t, "ONGOING", *uc.updated.Status)
	assert.Nil(t, uc.updated.StartTime)
}

func TestAppointmentHandler_UpdateInvalidStatus(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	rec := serve(newAppointmentRouter(uc), http.MethodPatch, "/appointments/"+uuid.NewString(), `{"status":"DONE"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.updated)
}

func TestAppointmentHandler_UpdateTransitionRejected(t *testing.T) {
	uc := &fakeAppointmentUsecase{updateErr: usecase.ErrInvalidStatusTransition}
	rec := serve(newAppointmentRouter(uc), http.MethodPatch, "/appointments/"+uuid.NewString(), `{"status":"BOOKED"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAppointmentHandler_InvalidID(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	r := newAppointmentRouter(uc)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/appointments/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodDelete, "/appointments/42", "").Code)
	assert.Equal(t, uuid.Nil, uc.deletedID)
}

func TestAppointmentHandler_GetNotFound(t *testing.T) {
	id := uuid.New()
	uc := &fakeAppointmentUsecase{}

	rec := serve(newAppointmentRouter(uc), http.MethodGet, "/appointments/"+id.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, id, uc.requestedID)
}

func TestAppointmentHandler_Delete(t *testing.T) {
	id := uuid.New()
	uc := &fakeAppointmentUsecase{}

	rec := serve(newAppointmentRouter(uc), http.MethodDelete, "/appointments/"+id.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, uc.deletedID)
}

func TestAppointmentHandler_ListQuery(t *testing.T) {
	doctorID := uuid.NewString()
	uc := &fakeAppointmentUsecase{}

	rec := serve(newAppointmentRouter(uc), http.MethodGet,
		"/appointments?start_date=2024-07-01&end_date=2024-07-07&doctor_id="+doctorID+"&status=BOOKED", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.listed)
	assert.Equal(t, "2024-07-01", uc.listed.StartDate)
	assert.Equal(t, "2024-07-07", uc.listed.EndDate)
	assert.Equal(t, doctorID, uc.listed.DoctorID)
	assert.Equal(t, "BOOKED", uc.listed.Status)
	assert.Empty(t, uc.listed.PatientID)
}

func TestAppointmentHandler_ListRejectsBadFilter(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	r := newAppointmentRouter(uc)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/appointments?doctor_id=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/appointments?status=DONE", "").Code)
	assert.Nil(t, uc.listed)
}

func TestAppointmentHandler_CheckConflicts(t *testing.T) {
	uc := &fakeAppointmentUsecase{checkResp: &dto.ConflictCheckResponse{HasConflicts: false, Conflicts: []dto.ConflictResponse{}}}
	body := `{"doctor_id":"` + uuid.NewString() + `","start_time":"2024-07-01T09:00:00Z","end_time":"2024-07-01T09:30:00Z"}`

	rec := serve(newAppointmentRouter(uc), http.MethodPost, "/appointments/conflicts", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.ConflictCheckResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &got))
	assert.False(t, got.HasConflicts)
}
