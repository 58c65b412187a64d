// Файл: internal/services/participant.go
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/events"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/eventbus"
)

type ParticipantService struct {
	participantRepo repositories.ParticipantRepositoryInterface
	eventRepo       repositories.EventRepositoryInterface
	tripService     BusinessTripServiceInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepositoryInterface,
	eventRepo repositories.EventRepositoryInterface,
	tripService BusinessTripServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		tripService:     tripService,
		bus:             bus,
		logger:          logger,
	}
}

// AddParticipants добавляет участников; каждого нового пропускает через
// проверку командировок на окно события.
func (s *ParticipantService) AddParticipants(ctx context.Context, principal *authz.Principal, eventID uint64, payload dto.AddParticipantsDTO) error {
	event, err := s.eventRepo.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !canEditEvent(principal, event) {
		return apperrors.ErrForbidden
	}

	results := s.tripService.CheckConflictBatch(ctx, payload.UserIDs, event.StartTime, &event.EndTime)
	for _, r := range results {
		if r.HasConflict {
			message := "Участник в командировке в это время."
			if r.Message != nil {
				message = *r.Message
			}
			return apperrors.NewConflictError(message, map[string]interface{}{"user_id": r.UserID})
		}
	}

	if err := s.participantRepo.AddParticipants(ctx, eventID, payload.UserIDs); err != nil {
		s.logger.Error("Ошибка при добавлении участников", zap.Uint64("event_id", eventID), zap.Error(err))
		return err
	}

	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: payload.UserIDs,
		Title:   "Новое событие",
		Message: fmt.Sprintf("Вас пригласили на событие «%s»", event.Title),
		RefType: "event",
		RefID:   eventID,
	})
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "participants_changed", ID: eventID})
	return nil
}

func (s *ParticipantService) RemoveParticipant(ctx context.Context, principal *authz.Principal, eventID, userID uint64) error {
	event, err := s.eventRepo.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}
	// Участник может выйти сам, остальное — право редактора события.
	if userID != principal.UserID && !canEditEvent(principal, event) {
		return apperrors.ErrForbidden
	}

	if err := s.participantRepo.Remove(ctx, eventID, userID); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "participants_changed", ID: eventID})
	return nil
}

// RSVP — ответ участника на приглашение.
func (s *ParticipantService) RSVP(ctx context.Context, principal *authz.Principal, eventID uint64, payload dto.RSVPDTO) error {
	event, err := s.eventRepo.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.participantRepo.UpdateStatus(ctx, eventID, principal.UserID, payload.Status); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: []uint64{event.CreatedByID},
		Title:   "Ответ на приглашение",
		Message: fmt.Sprintf("Участник ответил «%s» на событие «%s»", payload.Status, event.Title),
		RefType: "event",
		RefID:   eventID,
	})
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "event", Action: "participants_changed", ID: eventID})
	return nil
}

// SetAdjustmentNote — пометка участника о корректировке своего участия
// (опоздаю, уйду раньше и т.п.).
func (s *ParticipantService) SetAdjustmentNote(ctx context.Context, principal *authz.Principal, eventID uint64, payload dto.AdjustmentNoteDTO) error {
	event, err := s.eventRepo.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.participantRepo.UpdateAdjustmentNote(ctx, eventID, principal.UserID, payload.Note); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: []uint64{event.CreatedByID},
		Title:   "Корректировка участия",
		Message: fmt.Sprintf("Участник оставил пометку к событию «%s»: %s", event.Title, payload.Note),
		RefType: "event",
		RefID:   eventID,
	})
	return nil
}
