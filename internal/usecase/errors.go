package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is matched by every "<entity> not found" error.
var ErrNotFound = errors.New("not found")

var (
	ErrDoctorNotFound         = fmt.Errorf("doctor %w", ErrNotFound)
	ErrPatientNotFound        = fmt.Errorf("patient %w", ErrNotFound)
	ErrTreatmentNotFound      = fmt.Errorf("treatment %w", ErrNotFound)
	ErrRoomNotFound           = fmt.Errorf("room %w", ErrNotFound)
	ErrSpecializationNotFound = fmt.Errorf("specialization %w", ErrNotFound)
	ErrAppointmentNotFound    = fmt.Errorf("appointment %w", ErrNotFound)
	ErrUserNotFound           = fmt.Errorf("user %w", ErrNotFound)
	ErrRoleNotFound           = fmt.Errorf("role %w", ErrNotFound)
	ErrAuditLogNotFound       = fmt.Errorf("audit log %w", ErrNotFound)
)

var (
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidPrice            = errors.New("price must not be negative")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrAppointmentCanceled     = errors.New("canceled appointment cannot be rescheduled")
	ErrDurationRequired        = errors.New("treatment_id or duration is required")
	ErrBookingBusy             = errors.New("another booking for the same doctor, room or patient is in progress, retry")
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrNameAlreadyExists       = errors.New("name already exists")
	ErrResourceInUse           = errors.New("resource is referenced by appointments")
	ErrDoctorLinkRequired      = errors.New("doctor accounts require doctor_id")
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserInactive       = errors.New("user account is inactive")
)

// StorageError wraps an unexpected store failure. Its cause is never interpreted
// as a domain outcome.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isExclusionViolation checks for the appointment overlap exclusion constraints (23P01)
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
