package utils

import (
	"context"

	"github.com/wwwwwwmw/DA-BE/pkg/contextkeys"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}
