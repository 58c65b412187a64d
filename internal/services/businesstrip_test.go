// Файл: internal/services/businesstrip_test.go
package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
)

func newTripFixture() (*fakeEventRepo, BusinessTripServiceInterface) {
	eventRepo := newFakeEventRepo()
	service := NewBusinessTripService(eventRepo, zap.NewNop())
	return eventRepo, service
}

func tripAt(title string, start, end time.Time) entities.Event {
	return entities.Event{
		Title:     title,
		StartTime: start,
		EndTime:   end,
		Status:    constants.EventStatusApproved,
		Type:      constants.EventTypeWork,
	}
}

func TestBusinessTripCheckConflict_WindowInsideTrip(t *testing.T) {
	eventRepo, service := newTripFixture()
	tripStart := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tripEnd := time.Date(2026, 1, 17, 18, 0, 0, 0, time.UTC)
	trip := tripAt("Выставка в Москве", tripStart, tripEnd)
	trip.ID = 42
	eventRepo.trips[7] = []entities.Event{trip}

	start := time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 16, 11, 0, 0, 0, time.UTC)
	result := service.CheckConflict(context.Background(), 7, start, &end)

	assert.True(t, result.HasConflict)
	assert.Equal(t, uint64(7), result.UserID)
	require.NotNil(t, result.EventID)
	assert.Equal(t, uint64(42), *result.EventID)
	require.NotNil(t, result.Message)
	assert.Contains(t, *result.Message, "Выставка в Москве")
	assert.Contains(t, *result.Message, "15.01.2026 10:00")
}

func TestBusinessTripCheckConflict_InstantAtTripBoundaries(t *testing.T) {
	eventRepo, service := newTripFixture()
	tripStart := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tripEnd := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	eventRepo.trips[1] = []entities.Event{tripAt("Командировка", tripStart, tripEnd)}

	// Момент на старте командировки — конфликт: интервал полузакрытый.
	result := service.CheckConflict(context.Background(), 1, tripStart, nil)
	assert.True(t, result.HasConflict)

	// Момент ровно в конце командировки конфликтом не считается.
	result = service.CheckConflict(context.Background(), 1, tripEnd, nil)
	assert.False(t, result.HasConflict)
}

func TestBusinessTripCheckConflict_AdjacentWindows(t *testing.T) {
	eventRepo, service := newTripFixture()
	tripStart := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tripEnd := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	eventRepo.trips[1] = []entities.Event{tripAt("Командировка", tripStart, tripEnd)}

	// Окно, начинающееся в момент окончания командировки, — без конфликта.
	after := tripEnd.Add(time.Hour)
	result := service.CheckConflict(context.Background(), 1, tripEnd, &after)
	assert.False(t, result.HasConflict)

	// Окно, заканчивающееся в момент начала, — тоже.
	before := tripStart.Add(-time.Hour)
	result = service.CheckConflict(context.Background(), 1, before, &tripStart)
	assert.False(t, result.HasConflict)
}

func TestBusinessTripCheckConflict_StorageFailureMeansNoConflict(t *testing.T) {
	eventRepo, service := newTripFixture()
	eventRepo.tripsErr = fmt.Errorf("нет соединения с базой")

	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	result := service.CheckConflict(context.Background(), 1, start, nil)

	// Недоступность хранилища не должна блокировать основную операцию.
	assert.False(t, result.HasConflict)
	assert.Nil(t, result.Message)
}

func TestBusinessTripCheckConflictBatch_PreservesOrder(t *testing.T) {
	eventRepo, service := newTripFixture()
	tripStart := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tripEnd := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	eventRepo.trips[5] = []entities.Event{tripAt("Командировка", tripStart, tripEnd)}

	end := tripStart.Add(time.Hour)
	results := service.CheckConflictBatch(context.Background(), []uint64{9, 5, 3}, tripStart, &end)

	require.Len(t, results, 3)
	assert.Equal(t, uint64(9), results[0].UserID)
	assert.Equal(t, uint64(5), results[1].UserID)
	assert.Equal(t, uint64(3), results[2].UserID)
	assert.False(t, results[0].HasConflict)
	assert.True(t, results[1].HasConflict)
	assert.False(t, results[2].HasConflict)
}

func TestBusinessTripCheckConflictBatch_EmptyInput(t *testing.T) {
	_, service := newTripFixture()
	results := service.CheckConflictBatch(context.Background(), nil, time.Now(), nil)
	assert.Empty(t, results)
}
