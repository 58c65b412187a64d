// Файл: internal/services/businesstrip.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/internal/scheduling"
)

const conflictTimeFormat = "02.01.2006 15:04"

type BusinessTripServiceInterface interface {
	CheckConflict(ctx context.Context, userID uint64, start time.Time, end *time.Time) dto.ConflictResultDTO
	CheckConflictBatch(ctx context.Context, userIDs []uint64, start time.Time, end *time.Time) []dto.ConflictResultDTO
}

// BusinessTripService проверяет, не попадает ли планируемое окно на
// одобренную командировку пользователя.
type BusinessTripService struct {
	eventRepo repositories.EventRepositoryInterface
	logger    *zap.Logger
}

func NewBusinessTripService(eventRepo repositories.EventRepositoryInterface, logger *zap.Logger) BusinessTripServiceInterface {
	return &BusinessTripService{eventRepo: eventRepo, logger: logger}
}

// CheckConflict никогда не возвращает ошибку: сбой хранилища трактуется
// как отсутствие конфликта, чтобы проверка не блокировала основную
// операцию (fail-open).
func (s *BusinessTripService) CheckConflict(ctx context.Context, userID uint64, start time.Time, end *time.Time) dto.ConflictResultDTO {
	result := dto.ConflictResultDTO{UserID: userID}

	// Окно без конца — момент времени.
	windowEnd := start
	if end != nil {
		windowEnd = *end
	}

	trips, err := s.eventRepo.FindApprovedTrips(ctx, userID, start, windowEnd)
	if err != nil {
		s.logger.Warn("Проверка командировок недоступна, конфликт считается отсутствующим",
			zap.Uint64("user_id", userID), zap.Error(err))
		return result
	}

	for _, trip := range trips {
		if !scheduling.Overlaps(start, windowEnd, trip.StartTime, trip.EndTime) {
			continue
		}
		message := fmt.Sprintf("Сотрудник в командировке «%s» с %s по %s",
			trip.Title,
			trip.StartTime.Format(conflictTimeFormat),
			trip.EndTime.Format(conflictTimeFormat))
		tripID := trip.ID
		title := trip.Title
		result.HasConflict = true
		result.Message = &message
		result.EventID = &tripID
		result.EventTitle = &title
		return result
	}
	return result
}

// CheckConflictBatch проверяет пользователей параллельно; порядок
// результатов совпадает с порядком входного списка.
func (s *BusinessTripService) CheckConflictBatch(ctx context.Context, userIDs []uint64, start time.Time, end *time.Time) []dto.ConflictResultDTO {
	results := make([]dto.ConflictResultDTO, len(userIDs))
	if len(userIDs) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, userID := range userIDs {
		wg.Add(1)
		go func(i int, userID uint64) {
			defer wg.Done()
			results[i] = s.CheckConflict(ctx, userID, start, end)
		}(i, userID)
	}
	wg.Wait()
	return results
}
