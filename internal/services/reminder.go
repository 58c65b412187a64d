// Файл: internal/services/reminder.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/events"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/pkg/config"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
)

const reminderDedupTTL = 24 * time.Hour

// ReminderService — фоновый цикл напоминаний о скоро начинающихся
// одобренных событиях. Повторную отправку по одному событию гасит
// отметка в кеше.
type ReminderService struct {
	eventRepo       repositories.EventRepositoryInterface
	participantRepo repositories.ParticipantRepositoryInterface
	cache           repositories.CacheRepositoryInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
	interval        time.Duration
	horizon         time.Duration
}

func NewReminderService(
	eventRepo repositories.EventRepositoryInterface,
	participantRepo repositories.ParticipantRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	cfg config.ReminderConfig,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		cache:           cache,
		bus:             bus,
		logger:          logger,
		interval:        cfg.Interval,
		horizon:         cfg.Horizon,
	}
}

// Start запускает цикл до отмены контекста.
func (s *ReminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Цикл напоминаний запущен",
		zap.Duration("interval", s.interval), zap.Duration("horizon", s.horizon))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Цикл напоминаний остановлен")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *ReminderService) runOnce(ctx context.Context) {
	now := time.Now()
	upcoming, err := s.eventRepo.FindEventsInWindow(ctx, now, now.Add(s.horizon), []string{constants.EventStatusApproved})
	if err != nil {
		s.logger.Error("Не удалось получить ближайшие события", zap.Error(err))
		return
	}

	for _, event := range upcoming {
		dedupKey := fmt.Sprintf("reminder:event:%d", event.ID)
		if _, err := s.cache.Get(ctx, dedupKey); err == nil {
			continue
		}

		userIDs, err := s.participantRepo.GetUserIDsByEvent(ctx, event.ID)
		if err != nil {
			s.logger.Error("Не удалось получить участников события",
				zap.Uint64("event_id", event.ID), zap.Error(err))
			continue
		}
		userIDs = append(userIDs, event.CreatedByID)

		s.bus.Publish(ctx, events.NotifyRequestedEvent{
			UserIDs: userIDs,
			Title:   "Скоро событие",
			Message: fmt.Sprintf("Событие «%s» начнётся в %s", event.Title, event.StartTime.Format("15:04")),
			RefType: "event",
			RefID:   event.ID,
		})

		if err := s.cache.Set(ctx, dedupKey, "1", reminderDedupTTL); err != nil {
			s.logger.Warn("Не удалось отметить отправленное напоминание",
				zap.Uint64("event_id", event.ID), zap.Error(err))
		}
	}
}
