package dto

import (
	"time"

	"github.com/google/uuid"
)

type SpecializationRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty"`
}

type SpecializationResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SpecializationListResponse struct {
	Specializations []SpecializationResponse `json:"specializations"`
	Total           int                      `json:"total"`
}
