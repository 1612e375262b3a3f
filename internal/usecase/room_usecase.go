package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RoomUsecase interface {
	CreateRoom(ctx context.Context, req *dto.RoomRequest) (*dto.RoomResponse, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*dto.RoomResponse, error)
	GetAllRooms(ctx context.Context) (*dto.RoomListResponse, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.RoomRequest) (*dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type roomUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	roomRepo           repository.RoomRepository
	specializationRepo repository.SpecializationRepository
}

func NewRoomUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	roomRepo repository.RoomRepository,
	specializationRepo repository.SpecializationRepository,
) RoomUsecase {
	return &roomUsecase{
		db:                 db,
		log:                log,
		roomRepo:           roomRepo,
		specializationRepo: specializationRepo,
	}
}

func (u *roomUsecase) CreateRoom(ctx context.Context, req *dto.RoomRequest) (*dto.RoomResponse, error) {
	specializations, err := resolveSpecializations(ctx, u.db, u.specializationRepo, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	room := &entity.Room{Name: req.Name}
	if err := u.roomRepo.Create(ctx, tx, room); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrNameAlreadyExists
		}
		u.log.Warnf("Failed to create room: %+v", err)
		return nil, storageError("create room", err)
	}

	if len(specializations) > 0 {
		if err := u.roomRepo.ReplaceSpecializations(ctx, tx, room, specializations); err != nil {
			u.log.Warnf("Failed to set room specializations: %+v", err)
			return nil, storageError("set room specializations", err)
		}
	}
	room.Specializations = specializations

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit room", err)
	}

	return converter.RoomToResponse(room), nil
}

func (u *roomUsecase) GetRoom(ctx context.Context, id uuid.UUID) (*dto.RoomResponse, error) {
	room, err := u.roomRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find room by ID: %+v", err)
		return nil, storageError("find room", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return converter.RoomToResponse(room), nil
}

func (u *roomUsecase) GetAllRooms(ctx context.Context) (*dto.RoomListResponse, error) {
	rooms, err := u.roomRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find rooms: %+v", err)
		return nil, storageError("list rooms", err)
	}

	return &dto.RoomListResponse{
		Rooms: converter.RoomsToResponses(rooms),
		Total: len(rooms),
	}, nil
}

func (u *roomUsecase) UpdateRoom(ctx context.Context, id uuid.UUID, req *dto.RoomRequest) (*dto.RoomResponse, error) {
	specializations, err := resolveSpecializations(ctx, u.db, u.specializationRepo, req.SpecializationIDs)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	room, err := u.roomRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find room by ID: %+v", err)
		return nil, storageError("find room", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	room.Name = req.Name
	if err := u.roomRepo.Update(ctx, tx, room); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrNameAlreadyExists
		}
		u.log.Warnf("Failed to update room: %+v", err)
		return nil, storageError("update room", err)
	}

	if err := u.roomRepo.ReplaceSpecializations(ctx, tx, room, specializations); err != nil {
		u.log.Warnf("Failed to replace room specializations: %+v", err)
		return nil, storageError("replace room specializations", err)
	}
	room.Specializations = specializations

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError("commit room", err)
	}

	return converter.RoomToResponse(room), nil
}

func (u *roomUsecase) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.roomRepo.Delete(ctx, tx, id)
	if err != nil {
		if isForeignKeyError(err, "room") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete room: %+v", err)
		return storageError("delete room", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storageError("commit room", err)
	}
	return nil
}
