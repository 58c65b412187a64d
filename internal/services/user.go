// Файл: internal/services/user.go
package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type UserService struct {
	userRepo         repositories.UserRepositoryInterface
	principalService PrincipalServiceInterface
	logger           *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	principalService PrincipalServiceInterface,
	logger *zap.Logger,
) *UserService {
	return &UserService{userRepo: userRepo, principalService: principalService, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserResponseDTO, uint64, error) {
	users, total, err := s.userRepo.GetUsers(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении списка пользователей", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponseDTO, 0, len(users))
	for _, user := range users {
		result = append(result, mapUserToResponse(user))
	}
	return result, total, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapUserToResponse(*user)
	return &resp, nil
}

func (s *UserService) CreateUser(ctx context.Context, principal *authz.Principal, payload dto.CreateUserDTO) (*dto.UserResponseDTO, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := payload.Role
	if role == "" {
		role = constants.RoleEmployee
	}

	user, err := s.userRepo.CreateUser(ctx, &entities.User{
		Name:         payload.Name,
		Email:        payload.Email,
		Password:     string(hash),
		Role:         role,
		DepartmentID: payload.DepartmentID,
	})
	if err != nil {
		s.logger.Error("Ошибка при создании пользователя", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Пользователь создан", zap.Uint64("id", user.ID), zap.String("email", user.Email))
	resp := mapUserToResponse(*user)
	return &resp, nil
}

func (s *UserService) UpdateUser(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateUserDTO) (*dto.UserResponseDTO, error) {
	// Смена роли и департамента — только админ; себя может править каждый.
	if !principal.IsAdmin() {
		if principal.UserID != id || payload.Role != nil || payload.DepartmentID != nil {
			return nil, apperrors.ErrForbidden
		}
	}

	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.UpdateUser(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении пользователя", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}

	s.principalService.Invalidate(ctx, id)
	resp := mapUserToResponse(*user)
	return &resp, nil
}

func (s *UserService) DeleteUser(ctx context.Context, principal *authz.Principal, id uint64) error {
	if !principal.IsAdmin() {
		return apperrors.ErrForbidden
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		s.logger.Error("Ошибка при удалении пользователя", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.principalService.Invalidate(ctx, id)
	return nil
}
