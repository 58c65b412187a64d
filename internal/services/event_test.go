// Файл: internal/services/event_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

type eventFixture struct {
	eventRepo       *fakeEventRepo
	participantRepo *fakeParticipantRepo
	userRepo        *fakeUserRepo
	trips           *fakeTripService
	service         *EventService
}

func newEventFixture() *eventFixture {
	dept := uint64(1)
	f := &eventFixture{
		eventRepo:       newFakeEventRepo(),
		participantRepo: newFakeParticipantRepo(),
		userRepo: newFakeUserRepo(
			entities.User{ID: 1, Name: "Админ", Email: "admin@example.com", Role: constants.RoleAdmin},
			entities.User{ID: 2, Name: "Менеджер", Email: "manager@example.com", Role: constants.RoleManager, DepartmentID: &dept},
			entities.User{ID: 3, Name: "Сотрудник", Email: "employee@example.com", Role: constants.RoleEmployee, DepartmentID: &dept},
		),
		trips: newFakeTripService(),
	}
	f.service = NewEventService(f.eventRepo, f.participantRepo, f.userRepo, f.trips, newTestBus(), zap.NewNop())
	return f
}

func (f *eventFixture) addEvent(status string, roomID *uint64, start, end time.Time) *entities.Event {
	dept := uint64(1)
	return f.eventRepo.add(entities.Event{
		Title:        "Планёрка",
		StartTime:    start,
		EndTime:      end,
		Status:       status,
		Type:         constants.EventTypeMeeting,
		RoomID:       roomID,
		CreatedByID:  2,
		DepartmentID: &dept,
	})
}

func TestEventCreate_ForcesPendingAndOwnDepartment(t *testing.T) {
	f := newEventFixture()
	foreignDept := uint64(9)

	created, err := f.service.CreateEvent(context.Background(), deptManagerPrincipal(), dto.CreateEventDTO{
		Title:        "Совещание отдела",
		StartTime:    mustParse(t, "2026-04-01T10:00:00Z"),
		EndTime:      mustParse(t, "2026-04-01T11:00:00Z"),
		Type:         constants.EventTypeMeeting,
		DepartmentID: &foreignDept,
		IsGlobal:     true,
	})
	require.NoError(t, err)

	// Новое событие всегда ждёт одобрения; глобальность и чужой
	// департамент доступны только администратору.
	assert.Equal(t, constants.EventStatusPending, created.Status)
	assert.False(t, created.IsGlobal)
	require.NotNil(t, created.DepartmentID)
	assert.Equal(t, uint64(1), *created.DepartmentID)
}

func TestEventCreate_AdminKeepsGlobalFlag(t *testing.T) {
	f := newEventFixture()

	created, err := f.service.CreateEvent(context.Background(), adminPrincipal(), dto.CreateEventDTO{
		Title:     "Общее собрание",
		StartTime: mustParse(t, "2026-04-01T10:00:00Z"),
		EndTime:   mustParse(t, "2026-04-01T11:00:00Z"),
		Type:      constants.EventTypeMeeting,
		IsGlobal:  true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsGlobal)
}

func TestEventCreate_RoomBusy(t *testing.T) {
	f := newEventFixture()
	room := uint64(5)
	f.addEvent(constants.EventStatusApproved, &room,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T12:00:00Z"))

	_, err := f.service.CreateEvent(context.Background(), adminPrincipal(), dto.CreateEventDTO{
		Title:     "Вторая бронь",
		StartTime: mustParse(t, "2026-04-01T11:00:00Z"),
		EndTime:   mustParse(t, "2026-04-01T13:00:00Z"),
		Type:      constants.EventTypeMeeting,
		RoomID:    &room,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Встык после освобождения комнаты — можно.
	_, err = f.service.CreateEvent(context.Background(), adminPrincipal(), dto.CreateEventDTO{
		Title:     "Следом",
		StartTime: mustParse(t, "2026-04-01T12:00:00Z"),
		EndTime:   mustParse(t, "2026-04-01T13:00:00Z"),
		Type:      constants.EventTypeMeeting,
		RoomID:    &room,
	})
	assert.NoError(t, err)
}

func TestEventCreate_WorkEventDoesNotBookRoom(t *testing.T) {
	f := newEventFixture()
	room := uint64(5)
	f.addEvent(constants.EventStatusApproved, &room,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T12:00:00Z"))

	// Командировка с указанной комнатой помещение не занимает —
	// проверка пересечений действует только для совещаний.
	created, err := f.service.CreateEvent(context.Background(), adminPrincipal(), dto.CreateEventDTO{
		Title:     "Командировка со сборного пункта",
		StartTime: mustParse(t, "2026-04-01T11:00:00Z"),
		EndTime:   mustParse(t, "2026-04-03T13:00:00Z"),
		Type:      constants.EventTypeWork,
		RoomID:    &room,
	})
	require.NoError(t, err)

	// И перенос командировки по времени комнату не проверяет.
	newEnd := mustParse(t, "2026-04-04T13:00:00Z")
	_, err = f.service.UpdateEvent(context.Background(), adminPrincipal(), created.ID, dto.UpdateEventDTO{EndTime: &newEnd})
	assert.NoError(t, err)
}

func TestEventCreate_ParticipantOnTrip(t *testing.T) {
	f := newEventFixture()
	f.trips.setConflict(3, "Сотрудник в командировке «Выставка» с 01.04.2026 08:00 по 03.04.2026 20:00")

	_, err := f.service.CreateEvent(context.Background(), adminPrincipal(), dto.CreateEventDTO{
		Title:          "Совещание",
		StartTime:      mustParse(t, "2026-04-01T10:00:00Z"),
		EndTime:        mustParse(t, "2026-04-01T11:00:00Z"),
		Type:           constants.EventTypeMeeting,
		ParticipantIDs: []uint64{3},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEventUpdateStatus_Lattice(t *testing.T) {
	f := newEventFixture()
	ctx := context.Background()
	event := f.addEvent(constants.EventStatusPending, nil,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T11:00:00Z"))

	// Завершить можно только одобренное событие.
	_, err := f.service.UpdateEventStatus(ctx, adminPrincipal(), event.ID, dto.UpdateEventStatusDTO{Status: constants.EventStatusCompleted})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	updated, err := f.service.UpdateEventStatus(ctx, adminPrincipal(), event.ID, dto.UpdateEventStatusDTO{Status: constants.EventStatusApproved})
	require.NoError(t, err)
	assert.Equal(t, constants.EventStatusApproved, updated.Status)

	updated, err = f.service.UpdateEventStatus(ctx, adminPrincipal(), event.ID, dto.UpdateEventStatusDTO{Status: constants.EventStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, constants.EventStatusCompleted, updated.Status)

	// Из завершённого пути назад нет.
	_, err = f.service.UpdateEventStatus(ctx, adminPrincipal(), event.ID, dto.UpdateEventStatusDTO{Status: constants.EventStatusPending})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEventUpdateStatus_RequiresManagingRights(t *testing.T) {
	f := newEventFixture()
	event := f.addEvent(constants.EventStatusPending, nil,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T11:00:00Z"))

	dept := uint64(1)
	employee := &authz.Principal{UserID: 3, Role: constants.RoleEmployee, DepartmentID: &dept}
	_, err := f.service.UpdateEventStatus(context.Background(), employee, event.ID, dto.UpdateEventStatusDTO{Status: constants.EventStatusApproved})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestEventUpdate_ApprovedOnlyByAdmin(t *testing.T) {
	f := newEventFixture()
	event := f.addEvent(constants.EventStatusApproved, nil,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T11:00:00Z"))

	// Создатель-менеджер после одобрения редактировать не может.
	_, err := f.service.UpdateEvent(context.Background(), deptManagerPrincipal(), event.ID, dto.UpdateEventDTO{Title: utils.StringPtr("Перенос")})
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)

	_, err = f.service.UpdateEvent(context.Background(), adminPrincipal(), event.ID, dto.UpdateEventDTO{Title: utils.StringPtr("Перенос")})
	assert.NoError(t, err)
}

func TestEventUpdate_EndMustFollowStart(t *testing.T) {
	f := newEventFixture()
	event := f.addEvent(constants.EventStatusPending, nil,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T11:00:00Z"))

	badEnd := mustParse(t, "2026-04-01T09:00:00Z")
	_, err := f.service.UpdateEvent(context.Background(), deptManagerPrincipal(), event.ID, dto.UpdateEventDTO{EndTime: &badEnd})
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestEventUpdate_RoomRebookChecked(t *testing.T) {
	f := newEventFixture()
	room := uint64(5)
	f.addEvent(constants.EventStatusApproved, &room,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T12:00:00Z"))
	movable := f.addEvent(constants.EventStatusPending, nil,
		mustParse(t, "2026-04-01T11:00:00Z"), mustParse(t, "2026-04-01T12:00:00Z"))

	_, err := f.service.UpdateEvent(context.Background(), deptManagerPrincipal(), movable.ID, dto.UpdateEventDTO{RoomID: &room})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEventFind_VisibilityForOutsider(t *testing.T) {
	f := newEventFixture()
	event := f.addEvent(constants.EventStatusPending, nil,
		mustParse(t, "2026-04-01T10:00:00Z"), mustParse(t, "2026-04-01T11:00:00Z"))

	// Сотрудник другого департамента, не участник, — события не видит.
	otherDept := uint64(9)
	outsider := &authz.Principal{UserID: 3, Role: constants.RoleEmployee, DepartmentID: &otherDept}
	_, err := f.service.FindEvent(context.Background(), outsider, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// После приглашения — видит.
	require.NoError(t, f.participantRepo.AddParticipants(context.Background(), event.ID, []uint64{3}))
	found, err := f.service.FindEvent(context.Background(), outsider, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, found.ID)
}
