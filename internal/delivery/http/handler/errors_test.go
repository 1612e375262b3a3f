package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid window", scheduling.ErrInvalidWindow, http.StatusBadRequest},
		{"invalid date", usecase.ErrInvalidDateFormat, http.StatusBadRequest},
		{"schedule error", fmt.Errorf("monday: %w", entity.ErrInvalidWorkingHours), http.StatusBadRequest},
		{"not found", usecase.ErrDoctorNotFound, http.StatusNotFound},
		{"status transition", usecase.ErrInvalidStatusTransition, http.StatusUnprocessableEntity},
		{"canceled reschedule", usecase.ErrAppointmentCanceled, http.StatusUnprocessableEntity},
		{"email exists", usecase.ErrEmailAlreadyExists, http.StatusConflict},
		{"in use", usecase.ErrResourceInUse, http.StatusConflict},
		{"booking busy", usecase.ErrBookingBusy, http.StatusServiceUnavailable},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked token", usecase.ErrTokenRevoked, http.StatusUnauthorized},
		{"inactive user", usecase.ErrUserInactive, http.StatusForbidden},
		{"storage", &usecase.StorageError{Op: "create appointment", Err: errors.New("connection reset")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err, "Something failed")

			assert.Equal(t, tt.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
		})
	}
}

func TestRespondError_StorageErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, &usecase.StorageError{Op: "find doctor", Err: errors.New("pq: password authentication failed")}, "Failed to get doctor")

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Failed to get doctor", env.Message)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRespondError_NotFoundMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, usecase.ErrAppointmentNotFound, "Failed")

	assert.Equal(t, "Appointment not found", decodeEnvelope(t, rec).Message)
}

func TestRespondError_ConflictListsBookings(t *testing.T) {
	busyID := uuid.New()
	start := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
	err := &scheduling.ConflictError{Conflicts: []scheduling.Conflict{
		{Type: scheduling.ConflictTypeDoctor, AppointmentID: busyID, StartTime: start, EndTime: start.Add(time.Hour)},
	}}

	rec := httptest.NewRecorder()
	respondError(rec, err, "Failed")

	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, scheduling.ErrConflict.Error(), env.Message)

	var details struct {
		Conflicts []struct {
			Type          string    `json:"type"`
			AppointmentID uuid.UUID `json:"appointment_id"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(env.Error, &details))
	require.Len(t, details.Conflicts, 1)
	assert.Equal(t, "doctor", details.Conflicts[0].Type)
	assert.Equal(t, busyID, details.Conflicts[0].AppointmentID)
}

func TestRespondError_OutsideWorkingHoursDetails(t *testing.T) {
	day := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	t.Run("working day", func(t *testing.T) {
		err := &scheduling.OutsideWorkingHoursError{
			Date:    entity.Date{Year: 2024, Month: time.July, Day: 1},
			Weekday: time.Monday,
			Window:  &entity.WorkingWindow{Start: day.Add(9 * time.Hour), End: day.Add(17 * time.Hour)},
		}
		rec := httptest.NewRecorder()
		respondError(rec, err, "Failed")

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var details map[string]interface{}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Error, &details))
		assert.Equal(t, "2024-07-01", details["date"])
		assert.Equal(t, "Monday", details["weekday"])
		assert.Equal(t, true, details["is_working"])
		assert.Equal(t, false, details["exception_applied"])
		assert.Equal(t, "09:00", details["window_start"])
		assert.Equal(t, "17:00", details["window_end"])
	})

	t.Run("day off by exception", func(t *testing.T) {
		err := &scheduling.OutsideWorkingHoursError{
			Date:             entity.Date{Year: 2024, Month: time.July, Day: 1},
			Weekday:          time.Monday,
			ExceptionApplied: true,
		}
		rec := httptest.NewRecorder()
		respondError(rec, err, "Failed")

		var details map[string]interface{}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Error, &details))
		assert.Equal(t, false, details["is_working"])
		assert.Equal(t, true, details["exception_applied"])
		assert.NotContains(t, details, "window_start")
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Room not found", capitalize("room not found"))
	assert.Equal(t, "Already", capitalize("Already"))
	assert.Equal(t, "", capitalize(""))
}
