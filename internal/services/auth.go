// Файл: internal/services/auth.go
package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/pkg/config"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/service"
)

type AuthService struct {
	userRepo         repositories.UserRepositoryInterface
	jwtService       service.JWTService
	principalService PrincipalServiceInterface
	authCfg          config.AuthConfig
	logger           *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	principalService PrincipalServiceInterface,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		jwtService:       jwtService,
		principalService: principalService,
		authCfg:          authCfg,
		logger:           logger,
	}
}

// Login проверяет учётные данные. Счётчик неудачных входов ведётся в БД;
// при достижении порога учётная запись блокируется до вмешательства админа.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.LoginResponseDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked {
		return nil, apperrors.ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		attempts, locked, ferr := s.userRepo.RegisterLoginFailure(ctx, user.ID, s.authCfg.MaxLoginAttempts)
		if ferr != nil {
			s.logger.Error("Не удалось зафиксировать неудачный вход", zap.Uint64("user_id", user.ID), zap.Error(ferr))
		}
		if locked {
			s.logger.Warn("Учётная запись заблокирована после серии неудачных входов",
				zap.Uint64("user_id", user.ID), zap.Int("attempts", attempts))
			return nil, apperrors.ErrAccountLocked
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 {
		if err := s.userRepo.ResetLoginFailures(ctx, user.ID); err != nil {
			s.logger.Warn("Не удалось сбросить счётчик неудачных входов", zap.Uint64("user_id", user.ID), zap.Error(err))
		}
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUserToResponse(*user),
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.LoginResponseDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrTokenIsNotRefresh
	}
	if user.IsLocked {
		return nil, apperrors.ErrAccountLocked
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponseDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         mapUserToResponse(*user),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint64) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := mapUserToResponse(*user)
	return &resp, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, payload dto.ChangePasswordDTO) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.OldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// Unlock снимает блокировку учётной записи (только админ, проверяется выше).
func (s *AuthService) Unlock(ctx context.Context, userID uint64) error {
	if err := s.userRepo.SetLocked(ctx, userID, false); err != nil {
		return err
	}
	s.principalService.Invalidate(ctx, userID)
	s.logger.Info("Учётная запись разблокирована", zap.Uint64("user_id", userID))
	return nil
}

func mapUserToResponse(user entities.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		IsLocked:     user.IsLocked,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
}
