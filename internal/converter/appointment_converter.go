package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/scheduling"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Names are filled from whichever relations are preloaded.
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:            a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		TreatmentID:   a.TreatmentID,
		RoomID:        a.RoomID,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		Price:         a.Price,
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		Note:          a.Note,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.Doctor != nil {
		response.DoctorName = a.Doctor.FullName
	}
	if a.Patient != nil {
		response.PatientName = a.Patient.FullName
	}
	if a.Treatment != nil {
		response.TreatmentName = a.Treatment.Name
	}
	if a.Room != nil {
		response.RoomName = a.Room.Name
	}
	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func ConflictsToResponses(conflicts []scheduling.Conflict) []dto.ConflictResponse {
	responses := make([]dto.ConflictResponse, len(conflicts))
	for i, c := range conflicts {
		responses[i] = dto.ConflictResponse{
			Type:          string(c.Type),
			AppointmentID: c.AppointmentID,
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
		}
	}
	return responses
}
