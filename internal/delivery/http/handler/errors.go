package handler

import (
	"errors"
	"net/http"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// badRequestErrors are client mistakes reported with their own message.
var badRequestErrors = []error{
	scheduling.ErrInvalidWindow,
	usecase.ErrInvalidDateFormat,
	usecase.ErrInvalidPrice,
	usecase.ErrDurationRequired,
	usecase.ErrDoctorLinkRequired,
	entity.ErrInvalidTimeOfDay,
	entity.ErrInvalidDate,
	entity.ErrInvalidWorkingHours,
	entity.ErrMissingWorkingHours,
	entity.ErrDuplicateExceptionDate,
}

// respondError maps usecase and scheduling errors onto the response envelope.
// Anything unrecognised is a 500 with fallback as message.
func respondError(w http.ResponseWriter, err error, fallback string) {
	var (
		conflictErr *scheduling.ConflictError
		hoursErr    *scheduling.OutsideWorkingHoursError
	)

	switch {
	case errors.As(err, &conflictErr):
		response.Conflict(w, scheduling.ErrConflict.Error(), map[string]interface{}{
			"conflicts": converter.ConflictsToResponses(conflictErr.Conflicts),
		})
	case errors.As(err, &hoursErr):
		details := map[string]interface{}{
			"date":              hoursErr.Date.String(),
			"weekday":           hoursErr.Weekday.String(),
			"exception_applied": hoursErr.ExceptionApplied,
			"is_working":        hoursErr.Window != nil,
		}
		if hoursErr.Window != nil {
			details["window_start"] = hoursErr.Window.Start.Format(entity.TimeOfDayLayout)
			details["window_end"] = hoursErr.Window.End.Format(entity.TimeOfDayLayout)
		}
		response.UnprocessableEntity(w, scheduling.ErrOutsideWorkingHours.Error(), details)
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, capitalize(err.Error()))
	case isAny(err, badRequestErrors...):
		response.BadRequest(w, capitalize(err.Error()), nil)
	case errors.Is(err, usecase.ErrInvalidStatusTransition), errors.Is(err, usecase.ErrAppointmentCanceled):
		response.UnprocessableEntity(w, capitalize(err.Error()), nil)
	case errors.Is(err, usecase.ErrEmailAlreadyExists), errors.Is(err, usecase.ErrNameAlreadyExists),
		errors.Is(err, usecase.ErrResourceInUse):
		response.Conflict(w, capitalize(err.Error()), nil)
	case errors.Is(err, usecase.ErrBookingBusy):
		response.ServiceUnavailable(w, capitalize(err.Error()))
	case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, capitalize(err.Error()))
	case errors.Is(err, usecase.ErrUserInactive):
		response.Forbidden(w, capitalize(err.Error()))
	default:
		response.InternalServerError(w, fallback)
	}
}

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// pathID parses the {name} path variable as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}
