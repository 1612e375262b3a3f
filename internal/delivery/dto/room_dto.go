package dto

import (
	"time"

	"github.com/google/uuid"
)

type RoomRequest struct {
	Name              string      `json:"name" validate:"required,min=1,max=100"`
	SpecializationIDs []uuid.UUID `json:"specialization_ids" validate:"omitempty,dive,required"`
}

type RoomResponse struct {
	ID              uuid.UUID                `json:"id"`
	Name            string                   `json:"name"`
	Specializations []SpecializationResponse `json:"specializations"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type RoomListResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Total int            `json:"total"`
}
