// Файл: internal/services/department.go
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type DepartmentService struct {
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewDepartmentService(departmentRepo repositories.DepartmentRepositoryInterface, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo, logger: logger}
}

func mapDepartmentToResponse(d entities.Department) dto.DepartmentResponseDTO {
	return dto.DepartmentResponseDTO{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *DepartmentService) GetDepartments(ctx context.Context, filter types.Filter) ([]dto.DepartmentResponseDTO, uint64, error) {
	departments, total, err := s.departmentRepo.GetDepartments(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении списка департаментов", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DepartmentResponseDTO, 0, len(departments))
	for _, d := range departments {
		result = append(result, mapDepartmentToResponse(d))
	}
	return result, total, nil
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*dto.DepartmentResponseDTO, error) {
	department, err := s.departmentRepo.FindDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapDepartmentToResponse(*department)
	return &resp, nil
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, principal *authz.Principal, payload dto.CreateDepartmentDTO) (*dto.DepartmentResponseDTO, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	department, err := s.departmentRepo.CreateDepartment(ctx, entities.Department{Name: payload.Name})
	if err != nil {
		s.logger.Error("Ошибка при создании департамента", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Департамент создан", zap.Uint64("id", department.ID), zap.String("name", department.Name))
	resp := mapDepartmentToResponse(*department)
	return &resp, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateDepartmentDTO) (*dto.DepartmentResponseDTO, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	department, err := s.departmentRepo.UpdateDepartment(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении департамента", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	resp := mapDepartmentToResponse(*department)
	return &resp, nil
}

func (s *DepartmentService) DeleteDepartment(ctx context.Context, principal *authz.Principal, id uint64) error {
	if !principal.IsAdmin() {
		return apperrors.ErrForbidden
	}
	err := s.departmentRepo.DeleteDepartment(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка при удалении департамента", zap.Uint64("id", id), zap.Error(err))
	}
	return err
}
