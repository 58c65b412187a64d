package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
)

const defaultLabelColor = "#808080"

type LabelService struct {
	labelRepo repositories.LabelRepositoryInterface
	logger    *zap.Logger
}

func NewLabelService(labelRepo repositories.LabelRepositoryInterface, logger *zap.Logger) *LabelService {
	return &LabelService{labelRepo: labelRepo, logger: logger}
}

func mapLabelToResponse(l entities.Label) dto.LabelResponseDTO {
	return dto.LabelResponseDTO{ID: l.ID, Name: l.Name, Color: l.Color}
}

func (s *LabelService) GetLabels(ctx context.Context) ([]dto.LabelResponseDTO, error) {
	labels, err := s.labelRepo.GetLabels(ctx)
	if err != nil {
		s.logger.Error("Ошибка при получении меток", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LabelResponseDTO, 0, len(labels))
	for _, l := range labels {
		result = append(result, mapLabelToResponse(l))
	}
	return result, nil
}

func (s *LabelService) CreateLabel(ctx context.Context, principal *authz.Principal, payload dto.CreateLabelDTO) (*dto.LabelResponseDTO, error) {
	if !principal.IsAdmin() && !principal.IsManager() {
		return nil, apperrors.ErrForbidden
	}

	color := payload.Color
	if color == "" {
		color = defaultLabelColor
	}

	label, err := s.labelRepo.CreateLabel(ctx, entities.Label{Name: payload.Name, Color: color})
	if err != nil {
		s.logger.Error("Ошибка при создании метки", zap.Error(err))
		return nil, err
	}
	resp := mapLabelToResponse(*label)
	return &resp, nil
}

func (s *LabelService) UpdateLabel(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateLabelDTO) (*dto.LabelResponseDTO, error) {
	if !principal.IsAdmin() && !principal.IsManager() {
		return nil, apperrors.ErrForbidden
	}

	label, err := s.labelRepo.UpdateLabel(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении метки", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	resp := mapLabelToResponse(*label)
	return &resp, nil
}

func (s *LabelService) DeleteLabel(ctx context.Context, principal *authz.Principal, id uint64) error {
	if !principal.IsAdmin() && !principal.IsManager() {
		return apperrors.ErrForbidden
	}
	err := s.labelRepo.DeleteLabel(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка при удалении метки", zap.Uint64("id", id), zap.Error(err))
	}
	return err
}
