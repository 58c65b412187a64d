// Файл: internal/services/room.go
package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type RoomService struct {
	roomRepo repositories.RoomRepositoryInterface
	logger   *zap.Logger
}

func NewRoomService(roomRepo repositories.RoomRepositoryInterface, logger *zap.Logger) *RoomService {
	return &RoomService{roomRepo: roomRepo, logger: logger}
}

func mapRoomToResponse(r entities.Room) dto.RoomResponseDTO {
	return dto.RoomResponseDTO{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Location:  r.Location.Ptr(),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *RoomService) GetRooms(ctx context.Context, filter types.Filter) ([]dto.RoomResponseDTO, uint64, error) {
	rooms, total, err := s.roomRepo.GetRooms(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении списка комнат", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.RoomResponseDTO, 0, len(rooms))
	for _, r := range rooms {
		result = append(result, mapRoomToResponse(r))
	}
	return result, total, nil
}

func (s *RoomService) FindRoom(ctx context.Context, id uint64) (*dto.RoomResponseDTO, error) {
	room, err := s.roomRepo.FindRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapRoomToResponse(*room)
	return &resp, nil
}

func (s *RoomService) CreateRoom(ctx context.Context, principal *authz.Principal, payload dto.CreateRoomDTO) (*dto.RoomResponseDTO, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	room, err := s.roomRepo.CreateRoom(ctx, entities.Room{
		Name:     payload.Name,
		Capacity: payload.Capacity,
		Location: null.StringFromPtr(payload.Location),
	})
	if err != nil {
		s.logger.Error("Ошибка при создании комнаты", zap.Error(err))
		return nil, err
	}
	resp := mapRoomToResponse(*room)
	return &resp, nil
}

func (s *RoomService) UpdateRoom(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateRoomDTO) (*dto.RoomResponseDTO, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	room, err := s.roomRepo.UpdateRoom(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении комнаты", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	resp := mapRoomToResponse(*room)
	return &resp, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, principal *authz.Principal, id uint64) error {
	if !principal.IsAdmin() {
		return apperrors.ErrForbidden
	}
	err := s.roomRepo.DeleteRoom(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка при удалении комнаты", zap.Uint64("id", id), zap.Error(err))
	}
	return err
}
