package dto

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// Request DTOs

type AuditLogListRequest struct {
	Action     string `validate:"omitempty,max=100"`
	EntityType string `validate:"omitempty,max=50"`
	EntityID   string `validate:"omitempty,max=64"`
	Limit      int    `validate:"omitempty,min=1,max=500"`
	Offset     int    `validate:"omitempty,min=0"`
}

// Response DTOs

type AuditLogResponse struct {
	ID         int64         `json:"id"`
	User       *UserResponse `json:"user,omitempty"`
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type,omitempty"`
	EntityID   string        `json:"entity_id,omitempty"`
	Metadata   entity.JSON   `json:"metadata"`
	CreatedAt  time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
