package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

func RoomToResponse(room *entity.Room) *dto.RoomResponse {
	if room == nil {
		return nil
	}
	return &dto.RoomResponse{
		ID:              room.ID,
		Name:            room.Name,
		Specializations: SpecializationsToResponses(room.Specializations),
		CreatedAt:       room.CreatedAt,
		UpdatedAt:       room.UpdatedAt,
	}
}

func RoomsToResponses(rooms []entity.Room) []dto.RoomResponse {
	responses := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		responses[i] = *RoomToResponse(&rooms[i])
	}
	return responses
}
