// Файл: internal/services/auth_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/pkg/config"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/service"
)

type fakePrincipalService struct {
	invalidated []uint64
}

var _ PrincipalServiceInterface = (*fakePrincipalService)(nil)

func (s *fakePrincipalService) Resolve(_ context.Context) (*authz.Principal, error) {
	return nil, apperrors.ErrUnauthorized
}

func (s *fakePrincipalService) ResolveUser(_ context.Context, userID uint64) (*authz.Principal, error) {
	return &authz.Principal{UserID: userID}, nil
}

func (s *fakePrincipalService) Invalidate(_ context.Context, userID uint64) {
	s.invalidated = append(s.invalidated, userID)
}

type authFixture struct {
	userRepo   *fakeUserRepo
	jwtService service.JWTService
	principals *fakePrincipalService
	service    *AuthService
}

func newAuthFixture(t *testing.T, maxAttempts int) *authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	f := &authFixture{
		userRepo: newFakeUserRepo(entities.User{
			ID:       1,
			Name:     "Сотрудник",
			Email:    "user@example.com",
			Password: string(hash),
			Role:     "employee",
		}),
		jwtService: service.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour),
		principals: &fakePrincipalService{},
	}
	f.service = NewAuthService(f.userRepo, f.jwtService, f.principals,
		config.AuthConfig{MaxLoginAttempts: maxAttempts}, zap.NewNop())
	return f
}

func TestAuthLogin_IssuesTokenPair(t *testing.T) {
	f := newAuthFixture(t, 5)

	resp, err := f.service.Login(context.Background(), dto.LoginDTO{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, uint64(1), resp.User.ID)

	accessClaims, err := f.jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), accessClaims.UserID)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := f.jwtService.ValidateToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestAuthLogin_LocksAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture(t, 3)
	ctx := context.Background()
	wrong := dto.LoginDTO{Email: "user@example.com", Password: "mistaken"}

	_, err := f.service.Login(ctx, wrong)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, wrong)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Третья неудача достигает порога — учётная запись блокируется.
	_, err = f.service.Login(ctx, wrong)
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)

	// Даже верный пароль больше не пускает.
	_, err = f.service.Login(ctx, dto.LoginDTO{Email: "user@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestAuthLogin_SuccessResetsFailureCounter(t *testing.T) {
	f := newAuthFixture(t, 3)
	ctx := context.Background()

	_, err := f.service.Login(ctx, dto.LoginDTO{Email: "user@example.com", Password: "mistaken"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, dto.LoginDTO{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := f.userRepo.FindUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedLoginAttempts)
}

func TestAuthRefresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t, 5)
	ctx := context.Background()

	resp, err := f.service.Login(ctx, dto.LoginDTO{Email: "user@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Access-токен в роли refresh не принимается.
	_, err = f.service.RefreshToken(ctx, dto.RefreshTokenDTO{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	refreshed, err := f.service.RefreshToken(ctx, dto.RefreshTokenDTO{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthUnlock_ResetsLockAndCache(t *testing.T) {
	f := newAuthFixture(t, 1)
	ctx := context.Background()

	_, err := f.service.Login(ctx, dto.LoginDTO{Email: "user@example.com", Password: "mistaken"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)

	require.NoError(t, f.service.Unlock(ctx, 1))
	user, err := f.userRepo.FindUserByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, user.IsLocked)
	assert.Contains(t, f.principals.invalidated, uint64(1))
}