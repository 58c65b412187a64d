// Файл: internal/services/principal.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

const principalCacheTTL = 5 * time.Minute

type PrincipalServiceInterface interface {
	Resolve(ctx context.Context) (*authz.Principal, error)
	ResolveUser(ctx context.Context, userID uint64) (*authz.Principal, error)
	Invalidate(ctx context.Context, userID uint64)
}

// PrincipalService восстанавливает {userID, role, departmentId} из контекста
// запроса, кешируя результат в Redis, чтобы не ходить в БД на каждый запрос.
type PrincipalService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
}

func NewPrincipalService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) PrincipalServiceInterface {
	return &PrincipalService{userRepo: userRepo, cacheRepo: cacheRepo, logger: logger}
}

type cachedPrincipal struct {
	UserID       uint64  `json:"user_id"`
	Role         string  `json:"role"`
	DepartmentID *uint64 `json:"department_id"`
}

func principalCacheKey(userID uint64) string {
	return fmt.Sprintf("principal:%d", userID)
}

func (s *PrincipalService) Resolve(ctx context.Context) (*authz.Principal, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	return s.ResolveUser(ctx, userID)
}

func (s *PrincipalService) ResolveUser(ctx context.Context, userID uint64) (*authz.Principal, error) {
	key := principalCacheKey(userID)
	if raw, err := s.cacheRepo.Get(ctx, key); err == nil && raw != "" {
		var cached cachedPrincipal
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return &authz.Principal{UserID: cached.UserID, Role: cached.Role, DepartmentID: cached.DepartmentID}, nil
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	principal := &authz.Principal{UserID: user.ID, Role: user.Role, DepartmentID: user.DepartmentID}

	if raw, err := json.Marshal(cachedPrincipal{UserID: principal.UserID, Role: principal.Role, DepartmentID: principal.DepartmentID}); err == nil {
		if err := s.cacheRepo.Set(ctx, key, string(raw), principalCacheTTL); err != nil {
			s.logger.Warn("Не удалось закешировать principal", zap.Uint64("user_id", userID), zap.Error(err))
		}
	}
	return principal, nil
}

// Invalidate сбрасывает кеш после смены роли/департамента/блокировки.
func (s *PrincipalService) Invalidate(ctx context.Context, userID uint64) {
	if err := s.cacheRepo.Del(ctx, principalCacheKey(userID)); err != nil {
		s.logger.Warn("Не удалось сбросить кеш principal", zap.Uint64("user_id", userID), zap.Error(err))
	}
}
