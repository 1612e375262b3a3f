package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	exceptions := doctor.WorkingDaysExceptions
	if exceptions == nil {
		exceptions = []entity.ScheduleException{}
	}

	return &dto.DoctorResponse{
		ID:                    doctor.ID,
		FullName:              doctor.FullName,
		Email:                 doctor.Email,
		Phone:                 doctor.Phone,
		Specializations:       SpecializationsToResponses(doctor.Specializations),
		WorkingDays:           doctor.WorkingDays,
		WorkingDaysExceptions: exceptions,
		CreatedAt:             doctor.CreatedAt,
		UpdatedAt:             doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
