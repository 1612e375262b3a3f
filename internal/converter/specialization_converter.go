package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func SpecializationToResponse(s *entity.Specialization) *dto.SpecializationResponse {
	if s == nil {
		return nil
	}
	return &dto.SpecializationResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func SpecializationsToResponses(specializations []entity.Specialization) []dto.SpecializationResponse {
	responses := make([]dto.SpecializationResponse, len(specializations))
	for i := range specializations {
		responses[i] = *SpecializationToResponse(&specializations[i])
	}
	return responses
}
