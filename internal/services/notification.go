// Файл: internal/services/notification.go
package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
	"github.com/wwwwwwmw/DA-BE/pkg/websocket"
)

type NotificationServiceInterface interface {
	Notify(ctx context.Context, userIDs []uint64, title, message, refType string, refID uint64)
	GetMyNotifications(ctx context.Context, userID uint64, filter types.Filter) ([]dto.NotificationResponseDTO, uint64, error)
	CountUnread(ctx context.Context, userID uint64) (uint64, error)
	MarkRead(ctx context.Context, userID, notificationID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
	broadcaster      BroadcasterInterface
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepositoryInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// Notify сохраняет уведомления и проталкивает их по websocket.
// Доставка best-effort: любые сбои логируются и не возвращаются наружу.
func (s *NotificationService) Notify(ctx context.Context, userIDs []uint64, title, message, refType string, refID uint64) {
	if len(userIDs) == 0 {
		return
	}

	batch := make([]entities.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		batch = append(batch, entities.Notification{
			UserID:  id,
			Title:   title,
			Message: message,
			RefType: null.StringFrom(refType),
			RefID:   null.Uint64From(refID),
		})
	}

	created, err := s.notificationRepo.CreateBatch(ctx, batch)
	if err != nil {
		s.logger.Error("Не удалось сохранить уведомления",
			zap.String("title", title), zap.Uint64s("user_ids", userIDs), zap.Error(err))
		return
	}

	for _, n := range created {
		payload := websocket.NotificationPayload{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			RefType:   n.RefType.Ptr(),
			RefID:     n.RefID.Ptr(),
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		s.broadcaster.PushToUser(n.UserID, payload, "notification")
	}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uint64, filter types.Filter) ([]dto.NotificationResponseDTO, uint64, error) {
	notifications, total, err := s.notificationRepo.GetByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении уведомлений", zap.Uint64("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.NotificationResponseDTO, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, dto.NotificationResponseDTO{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			RefType:   n.RefType.Ptr(),
			RefID:     n.RefID.Ptr(),
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, total, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint64) (uint64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
