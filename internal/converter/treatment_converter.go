package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func TreatmentToResponse(treatment *entity.Treatment) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}
	return &dto.TreatmentResponse{
		ID:               treatment.ID,
		Name:             treatment.Name,
		SpecializationID: treatment.SpecializationID,
		Specialization:   SpecializationToResponse(treatment.Specialization),
		Duration:         treatment.Duration,
		Price:            treatment.Price,
		CreatedAt:        treatment.CreatedAt,
		UpdatedAt:        treatment.UpdatedAt,
	}
}

func TreatmentsToResponses(treatments []entity.Treatment) []dto.TreatmentResponse {
	responses := make([]dto.TreatmentResponse, len(treatments))
	for i := range treatments {
		responses[i] = *TreatmentToResponse(&treatments[i])
	}
	return responses
}
