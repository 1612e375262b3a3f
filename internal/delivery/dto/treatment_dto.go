package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TreatmentRequest struct {
	Name             string          `json:"name" validate:"required,min=2,max=255"`
	SpecializationID *uuid.UUID      `json:"specialization_id" validate:"omitempty"`
	Duration         int             `json:"duration" validate:"required,min=1,max=1440"` // minutes
	Price            decimal.Decimal `json:"price"`
}

type TreatmentResponse struct {
	ID               uuid.UUID               `json:"id"`
	Name             string                  `json:"name"`
	SpecializationID *uuid.UUID              `json:"specialization_id,omitempty"`
	Specialization   *SpecializationResponse `json:"specialization,omitempty"`
	Duration         int                     `json:"duration"`
	Price            decimal.Decimal         `json:"price"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

type TreatmentListResponse struct {
	Treatments []TreatmentResponse `json:"treatments"`
	Total      int                 `json:"total"`
}
