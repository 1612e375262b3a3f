package scheduling

import (
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// ConflictType names the shared resource of a conflict
type ConflictType string

const (
	ConflictTypeDoctor  ConflictType = "doctor"
	ConflictTypeRoom    ConflictType = "room"
	ConflictTypePatient ConflictType = "patient"
)

// Conflict is one (party, existing appointment) pair blocking a window.
type Conflict struct {
	Type          ConflictType `json:"type"`
	AppointmentID uuid.UUID    `json:"appointment_id"`
	StartTime     time.Time    `json:"start_time"`
	EndTime       time.Time    `json:"end_time"`
}

// Parties lists the resources a requested appointment would occupy.
// Nil RoomID or PatientID skips that dimension.
type Parties struct {
	DoctorID  uuid.UUID
	RoomID    *uuid.UUID
	PatientID *uuid.UUID
}

// TagConflicts compares the requested window with candidate appointments and
// emits one Conflict per overlapping appointment and shared party, in
// doctor, room, patient order. Canceled candidates and exclude are ignored.
func TagConflicts(candidates []entity.Appointment, parties Parties, start, end time.Time, exclude *uuid.UUID) []Conflict {
	conflicts := []Conflict{}
	for _, a := range candidates {
		if a.IsCanceled() {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		if !Overlaps(start, end, a.StartTime, a.EndTime) {
			continue
		}

		record := func(t ConflictType) {
			conflicts = append(conflicts, Conflict{Type: t, AppointmentID: a.ID, StartTime: a.StartTime, EndTime: a.EndTime})
		}
		if a.DoctorID == parties.DoctorID {
			record(ConflictTypeDoctor)
		}
		if parties.RoomID != nil && a.RoomID != nil && *a.RoomID == *parties.RoomID {
			record(ConflictTypeRoom)
		}
		if parties.PatientID != nil && a.PatientID == *parties.PatientID {
			record(ConflictTypePatient)
		}
	}
	return conflicts
}
