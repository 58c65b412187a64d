// Файл: internal/services/event.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/events"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/internal/scheduling"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type EventService struct {
	eventRepo       repositories.EventRepositoryInterface
	participantRepo repositories.ParticipantRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	tripService     BusinessTripServiceInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewEventService(
	eventRepo repositories.EventRepositoryInterface,
	participantRepo repositories.ParticipantRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	tripService BusinessTripServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		tripService:     tripService,
		bus:             bus,
		logger:          logger,
	}
}

func (s *EventService) mapEventToResponse(ctx context.Context, event entities.Event, withParticipants bool) (*dto.EventResponseDTO, error) {
	resp := &dto.EventResponseDTO{
		ID:           event.ID,
		Title:        event.Title,
		Description:  event.Description.Ptr(),
		StartTime:    event.StartTime.Format(time.RFC3339),
		EndTime:      event.EndTime.Format(time.RFC3339),
		Status:       event.Status,
		Type:         event.Type,
		RoomID:       event.RoomID,
		DepartmentID: event.DepartmentID,
		IsGlobal:     event.IsGlobal,
		Repeat:       event.Repeat.Ptr(),
		CreatedAt:    event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    event.UpdatedAt.Format(time.RFC3339),
	}

	creator, err := s.userRepo.FindUserByID(ctx, event.CreatedByID)
	if err == nil {
		resp.Creator = dto.ShortUserDTO{ID: creator.ID, Name: creator.Name, Email: creator.Email}
	}

	if withParticipants {
		participants, err := s.participantRepo.GetByEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		userIDs := make([]uint64, 0, len(participants))
		for _, p := range participants {
			userIDs = append(userIDs, p.UserID)
		}
		users, err := s.userRepo.FindUsersByIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		usersByID := make(map[uint64]entities.User, len(users))
		for _, u := range users {
			usersByID[u.ID] = u
		}
		for _, p := range participants {
			item := dto.ParticipantResponseDTO{
				ID:             p.ID,
				EventID:        p.EventID,
				Status:         p.Status,
				AdjustmentNote: p.AdjustmentNote.Ptr(),
			}
			if u, ok := usersByID[p.UserID]; ok {
				item.User = dto.ShortUserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
			}
			resp.Participants = append(resp.Participants, item)
		}
	}
	return resp, nil
}

func (s *EventService) GetEvents(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]dto.EventResponseDTO, uint64, error) {
	scope := repositories.EventVisibilityScope{
		UserID:       principal.UserID,
		DepartmentID: principal.DepartmentID,
		All:          principal.IsAdmin(),
	}
	eventsList, total, err := s.eventRepo.GetEvents(ctx, filter, scope)
	if err != nil {
		s.logger.Error("Ошибка при получении списка событий", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EventResponseDTO, 0, len(eventsList))
	for _, event := range eventsList {
		item, err := s.mapEventToResponse(ctx, event, false)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, nil
}

func (s *EventService) FindEvent(ctx context.Context, principal *authz.Principal, id uint64) (*dto.EventResponseDTO, error) {
	event, err := s.eventRepo.FindEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	isParticipant := false
	if _, err := s.participantRepo.FindByEventAndUser(ctx, id, principal.UserID); err == nil {
		isParticipant = true
	}
	if !authz.CanSeeEvent(principal, event.IsGlobal, event.DepartmentID, event.CreatedByID, isParticipant) {
		return nil, apperrors.ErrForbidden
	}

	return s.mapEventToResponse(ctx, *event, true)
}

// checkRoomConflict возвращает 409, если комната занята другим
// незавершённым событием в указанном окне.
func (s *EventService) checkRoomConflict(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) error {
	conflict, err := s.eventRepo.FindRoomConflict(ctx, roomID, start, end, excludeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return apperrors.NewConflictError(
		fmt.Sprintf("Комната занята событием «%s» с %s по %s",
			conflict.Title,
			conflict.StartTime.Format(conflictTimeFormat),
			conflict.EndTime.Format(conflictTimeFormat)),
		map[string]interface{}{"conflicting_event_id": conflict.ID},
	)
}

// checkParticipantTrips отклоняет создание, если кто-то из участников
// в этот момент находится в одобренной командировке.
func (s *EventService) checkParticipantTrips(ctx context.Context, userIDs []uint64, start, end time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}
	results := s.tripService.CheckConflictBatch(ctx, userIDs, start, &end)
	details := make([]map[string]interface{}, 0)
	for _, r := range results {
		if !r.HasConflict {
			continue
		}
		detail := map[string]interface{}{"user_id": r.UserID}
		if r.Message != nil {
			detail["message"] = *r.Message
		}
		if r.EventID != nil {
			detail["event_id"] = *r.EventID
		}
		details = append(details, detail)
	}
	if len(details) == 0 {
		return nil
	}
	return apperrors.NewConflictError("Часть участников в командировке в это время.",
		map[string]interface{}{"conflicts": details})
}

func (s *EventService) CreateEvent(ctx context.Context, principal *authz.Principal, payload dto.CreateEventDTO) (*dto.EventResponseDTO, error) {
	// Занятость комнаты проверяется только для совещаний: командировка
	// с комнатой помещение не бронирует.
	if payload.RoomID != nil && payload.Type == constants.EventTypeMeeting {
		if err := s.checkRoomConflict(ctx, *payload.RoomID, payload.StartTime, payload.EndTime, 0); err != nil {
			return nil, err
		}
	}
	if err := s.checkParticipantTrips(ctx, payload.ParticipantIDs, payload.StartTime, payload.EndTime); err != nil {
		return nil, err
	}

	departmentID := payload.DepartmentID
	if !principal.IsAdmin() {
		departmentID = principal.DepartmentID
	}
	isGlobal := payload.IsGlobal && principal.IsAdmin()

	event, err := s.eventRepo.CreateEvent(ctx, entities.Event{
		Title:        payload.Title,
		Description:  null.StringFromPtr(payload.Description),
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		Status:       constants.EventStatusPending,
		Type:         payload.Type,
		RoomID:       payload.RoomID,
		CreatedByID:  principal.UserID,
		DepartmentID: departmentID,
		IsGlobal:     isGlobal,
		Repeat:       null.StringFromPtr(payload.Repeat),
	})
	if err != nil {
		s.logger.Error("Ошибка при создании события", zap.Error(err))
		return nil, err
	}

	if len(payload.ParticipantIDs) > 0 {
		if err := s.participantRepo.AddParticipants(ctx, event.ID, payload.ParticipantIDs); err != nil {
			s.logger.Error("Не удалось добавить участников события", zap.Uint64("event_id", event.ID), zap.Error(err))
		} else {
			s.bus.Publish(ctx, events.NotifyRequestedEvent{
				UserIDs: payload.ParticipantIDs,
				Title:   "Новое событие",
				Message: fmt.Sprintf("Вас пригласили на событие «%s»", event.Title),
				RefType: "event",
				RefID:   event.ID,
			})
		}
	}

	// Событие ждёт одобрения — сообщаем менеджерам департамента.
	if event.DepartmentID != nil && !principal.IsAdmin() {
		if managers, err := s.userRepo.FindManagersByDepartment(ctx, *event.DepartmentID); err == nil {
			ids := make([]uint64, 0, len(managers))
			for _, m := range managers {
				if m.ID != principal.UserID {
					ids = append(ids, m.ID)
				}
			}
			if len(ids) > 0 {
				s.bus.Publish(ctx, events.NotifyRequestedEvent{
					UserIDs: ids,
					Title:   "Событие ждёт одобрения",
					Message: fmt.Sprintf("Создано событие «%s», требуется решение", event.Title),
					RefType: "event",
					RefID:   event.ID,
				})
			}
		}
	}

	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "created", ID: event.ID})
	return s.mapEventToResponse(ctx, *event, true)
}

// canEditEvent: админ — всегда; после одобрения — только админ;
// до одобрения — создатель или менеджер департамента события.
func canEditEvent(principal *authz.Principal, event *entities.Event) bool {
	if principal.IsAdmin() {
		return true
	}
	if event.Status != constants.EventStatusPending {
		return false
	}
	if event.CreatedByID == principal.UserID {
		return true
	}
	return authz.CanManage(principal, event.DepartmentID)
}

func (s *EventService) UpdateEvent(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateEventDTO) (*dto.EventResponseDTO, error) {
	event, err := s.eventRepo.FindEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEditEvent(principal, event) {
		if event.Status == constants.EventStatusApproved {
			return nil, apperrors.NewForbiddenError("Одобренное событие может изменять только администратор.")
		}
		return nil, apperrors.ErrForbidden
	}

	// Пересчёт занятости комнаты при смене окна или комнаты.
	start := event.StartTime
	end := event.EndTime
	if payload.StartTime != nil {
		start = *payload.StartTime
	}
	if payload.EndTime != nil {
		end = *payload.EndTime
	}
	if !end.After(start) {
		return nil, apperrors.NewValidationError("Время окончания должно быть позже времени начала.")
	}
	roomID := event.RoomID
	if payload.RoomID != nil {
		roomID = payload.RoomID
	}
	if roomID != nil && event.Type == constants.EventTypeMeeting &&
		(payload.StartTime != nil || payload.EndTime != nil || payload.RoomID != nil) {
		if err := s.checkRoomConflict(ctx, *roomID, start, end, event.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.eventRepo.UpdateEvent(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении события", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "updated", ID: id})
	return s.mapEventToResponse(ctx, *updated, true)
}

func (s *EventService) UpdateEventStatus(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateEventStatusDTO) (*dto.EventResponseDTO, error) {
	event, err := s.eventRepo.FindEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(principal, event.DepartmentID) {
		return nil, apperrors.ErrForbidden
	}
	if !scheduling.CanTransitEventStatus(event.Status, payload.Status) {
		return nil, apperrors.NewStateError(
			fmt.Sprintf("Переход статуса %s -> %s недопустим.", event.Status, payload.Status))
	}

	if err := s.eventRepo.UpdateEventStatus(ctx, id, payload.Status); err != nil {
		return nil, err
	}

	if userIDs, err := s.participantRepo.GetUserIDsByEvent(ctx, id); err == nil && len(userIDs) > 0 {
		s.bus.Publish(ctx, events.NotifyRequestedEvent{
			UserIDs: userIDs,
			Title:   "Статус события изменён",
			Message: fmt.Sprintf("Событие «%s» теперь в статусе «%s»", event.Title, payload.Status),
			RefType: "event",
			RefID:   id,
		})
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "status_changed", ID: id})

	event.Status = payload.Status
	return s.mapEventToResponse(ctx, *event, true)
}

func (s *EventService) DeleteEvent(ctx context.Context, principal *authz.Principal, id uint64) error {
	event, err := s.eventRepo.FindEvent(ctx, id)
	if err != nil {
		return err
	}
	if !canEditEvent(principal, event) {
		return apperrors.ErrForbidden
	}

	if err := s.eventRepo.DeleteEvent(ctx, id); err != nil {
		s.logger.Error("Ошибка при удалении события", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "deleted", ID: id})
	return nil
}
