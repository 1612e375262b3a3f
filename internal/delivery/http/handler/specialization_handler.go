package handler

import (
	"encoding/json"
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type SpecializationHandler struct {
	specializationUsecase usecase.SpecializationUsecase
	validator             *validator.CustomValidator
}

func NewSpecializationHandler(specializationUsecase usecase.SpecializationUsecase, validator *validator.CustomValidator) *SpecializationHandler {
	return &SpecializationHandler{
		specializationUsecase: specializationUsecase,
		validator:             validator,
	}
}

func (h *SpecializationHandler) CreateSpecialization(w http.ResponseWriter, r *http.Request) {
	var req dto.SpecializationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	specialization, err := h.specializationUsecase.CreateSpecialization(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to create specialization")
		return
	}

	response.Success(w, http.StatusCreated, "Specialization created successfully", specialization)
}

func (h *SpecializationHandler) GetSpecialization(w http.ResponseWriter, r *http.Request) {
	specializationID, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid specialization ID", nil)
		return
	}

	specialization, err := h.specializationUsecase.GetSpecialization(r.Context(), specializationID)
	if err != nil {
		respondError(w, err, "Failed to get specialization")
		return
	}

	response.Success(w, http.StatusOK, "Specialization retrieved successfully", specialization)
}

func (h *SpecializationHandler) GetAllSpecializations(w http.ResponseWriter, r *http.Request) {
	specializations, err := h.specializationUsecase.GetAllSpecializations(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get specializations")
		return
	}

	response.Success(w, http.StatusOK, "Specializations retrieved successfully", specializations)
}

func (h *SpecializationHandler) UpdateSpecialization(w http.ResponseWriter, r *http.Request) {
	specializationID, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid specialization ID", nil)
		return
	}

	var req dto.SpecializationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	specialization, err := h.specializationUsecase.UpdateSpecialization(r.Context(), specializationID, &req)
	if err != nil {
		respondError(w, err, "Failed to update specialization")
		return
	}

	response.Success(w, http.StatusOK, "Specialization updated successfully", specialization)
}

func (h *SpecializationHandler) DeleteSpecialization(w http.ResponseWriter, r *http.Request) {
	specializationID, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid specialization ID", nil)
		return
	}

	if err := h.specializationUsecase.DeleteSpecialization(r.Context(), specializationID); err != nil {
		respondError(w, err, "Failed to delete specialization")
		return
	}

	response.Success(w, http.StatusOK, "Specialization deleted successfully", nil)
}
