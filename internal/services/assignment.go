// Файл: internal/services/assignment.go
package services

import (
	"context"
	"fmt"
	"time"

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
)

type AssignmentServiceInterface interface {
	Apply(ctx context.Context, principal *authz.Principal, taskID uint64) (*dto.AssignmentResponseDTO, error)
	Assign(ctx context.Context, principal *authz.Principal, taskID, userID uint64) (*dto.AssignmentResponseDTO, error)
	Accept(ctx context.Context, principal *authz.Principal, taskID uint64) error
	Reject(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.RejectTaskDTO) error
	ApproveRejection(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.RejectionDecisionDTO) error
	DenyRejection(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.RejectionDecisionDTO) error
	UpdateProgress(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.UpdateProgressDTO) error
}

// AssignmentService ведёт жизненный цикл назначений задачи:
// самозапись на открытые задачи, прямое назначение менеджером,
// принятие, отказ и решения по отказам.
type AssignmentService struct {
	taskRepo       repositories.TaskRepositoryInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	tripService    BusinessTripServiceInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
}

func NewAssignmentService(
	taskRepo repositories.TaskRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	tripService BusinessTripServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) AssignmentServiceInterface {
	return &AssignmentService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		tripService:    tripService,
		bus:            bus,
		logger:         logger,
	}
}

func (s *AssignmentService) mapAssignmentToResponse(ctx context.Context, a entities.TaskAssignment) *dto.AssignmentResponseDTO {
	resp := &dto.AssignmentResponseDTO{
		ID:           a.ID,
		TaskID:       a.TaskID,
		Status:       a.Status,
		Progress:     a.Progress,
		RejectReason: a.RejectReason.Ptr(),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if user, err := s.userRepo.FindUserByID(ctx, a.UserID); err == nil {
		resp.User = dto.ShortUserDTO{ID: user.ID, Name: user.Name, Email: user.Email}
	} else {
		resp.User = dto.ShortUserDTO{ID: a.UserID}
	}
	return resp
}

// checkCapacity сравнивает занятые места (accepted и completed) с
// вместимостью задачи.
func (s *AssignmentService) checkCapacity(ctx context.Context, task *entities.Task) error {
	active, err := s.assignmentRepo.CountActive(ctx, task.ID)
	if err != nil {
		return err
	}
	if active >= task.Capacity {
		return apperrors.ErrCapacityExceeded
	}
	return nil
}

// checkTripConflict проверяет командировки исполнителя на окно задачи.
// Задача без окна проверку не проходит — конфликтовать не с чем.
func (s *AssignmentService) checkTripConflict(ctx context.Context, task *entities.Task, userID uint64) error {
	if !task.StartTime.Valid && !task.EndTime.Valid {
		return nil
	}
	start := task.StartTime.Time
	if !task.StartTime.Valid {
		start = task.EndTime.Time
	}
	result := s.tripService.CheckConflict(ctx, userID, start, task.EndTime.Ptr())
	if result.HasConflict {
		message := "Сотрудник в командировке в это время."
		if result.Message != nil {
			message = *result.Message
		}
		return apperrors.NewConflictError(message, map[string]interface{}{"user_id": userID})
	}
	return nil
}

// refreshTaskStatus выводит статус задачи из её назначений и пишет его
// только при фактическом изменении.
func (s *AssignmentService) refreshTaskStatus(ctx context.Context, taskID uint64) {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		s.logger.Warn("Не удалось перечитать задачу для пересчёта статуса", zap.Uint64("task_id", taskID), zap.Error(err))
		return
	}
	assignments, err := s.assignmentRepo.GetByTask(ctx, taskID)
	if err != nil {
		s.logger.Warn("Не удалось получить назначения для пересчёта статуса", zap.Uint64("task_id", taskID), zap.Error(err))
		return
	}

	snapshot := make([]scheduling.AssignmentProgress, 0, len(assignments))
	for _, a := range assignments {
		snapshot = append(snapshot, scheduling.AssignmentProgress{Status: a.Status, Progress: a.Progress})
	}

	status, changed := scheduling.DeriveTaskStatus(task.Status, snapshot)
	if !changed {
		return
	}
	if err := s.taskRepo.UpdateTaskStatus(ctx, taskID, status); err != nil {
		s.logger.Error("Не удалось обновить статус задачи", zap.Uint64("task_id", taskID), zap.Error(err))
		return
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "task", Action: "status_changed", ID: taskID})
}

// notifyTaskManagers уведомляет менеджеров департамента задачи;
// если их нет — создателя задачи.
func (s *AssignmentService) notifyTaskManagers(ctx context.Context, task *entities.Task, title, message string) {
	recipients := []uint64{task.CreatedByID}
	if task.DepartmentID != nil {
		managers, err := s.userRepo.FindManagersByDepartment(ctx, *task.DepartmentID)
		if err != nil {
			s.logger.Warn("Не удалось получить менеджеров департамента", zap.Uint64p("department_id", task.DepartmentID), zap.Error(err))
		} else if len(managers) > 0 {
			recipients = recipients[:0]
			for _, m := range managers {
				recipients = append(recipients, m.ID)
			}
		}
	}
	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: recipients,
		Title:   title,
		Message: message,
		RefType: "task",
		RefID:   task.ID,
	})
}

// Apply — самозапись на открытую задачу. Сразу даёт статус accepted.
// Командировки здесь не проверяются: сотрудник записывается сам и сам
// отвечает за свой график; проверка действует только при назначении.
func (s *AssignmentService) Apply(ctx context.Context, principal *authz.Principal, taskID uint64) (*dto.AssignmentResponseDTO, error) {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.AssignmentType != constants.AssignmentTypeOpen {
		return nil, apperrors.NewValidationError("На эту задачу нельзя записаться самостоятельно.")
	}
	if err := s.checkCapacity(ctx, task); err != nil {
		return nil, err
	}

	created, err := s.assignmentRepo.Create(ctx, entities.TaskAssignment{
		TaskID: taskID,
		UserID: principal.UserID,
		Status: constants.AssignmentStatusAccepted,
	})
	if err != nil {
		return nil, err
	}

	s.notifyTaskManagers(ctx, task, "Запись на задачу",
		fmt.Sprintf("Сотрудник записался на задачу «%s»", task.Title))
	s.refreshTaskStatus(ctx, taskID)
	return s.mapAssignmentToResponse(ctx, *created), nil
}

// Assign — прямое назначение исполнителя менеджером или администратором.
// Для direct-задач назначение ждёт подтверждения исполнителя.
func (s *AssignmentService) Assign(ctx context.Context, principal *authz.Principal, taskID, userID uint64) (*dto.AssignmentResponseDTO, error) {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(principal, task.DepartmentID) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, task); err != nil {
		return nil, err
	}
	if err := s.checkTripConflict(ctx, task, userID); err != nil {
		return nil, err
	}

	status := constants.AssignmentStatusAccepted
	if task.AssignmentType == constants.AssignmentTypeDirect {
		status = constants.AssignmentStatusAssigned
	}

	created, err := s.assignmentRepo.Create(ctx, entities.TaskAssignment{
		TaskID: taskID,
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: []uint64{userID},
		Title:   "Новое назначение",
		Message: fmt.Sprintf("Вам назначена задача «%s»", task.Title),
		RefType: "task",
		RefID:   taskID,
	})
	s.refreshTaskStatus(ctx, taskID)
	return s.mapAssignmentToResponse(ctx, *created), nil
}

// Accept — подтверждение назначения исполнителем. Повторное
// подтверждение уже принятого назначения — no-op.
func (s *AssignmentService) Accept(ctx context.Context, principal *authz.Principal, taskID uint64) error {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return err
	}
	assignment, err := s.assignmentRepo.FindByTaskAndUser(ctx, taskID, principal.UserID)
	if err != nil {
		return err
	}

	switch assignment.Status {
	case constants.AssignmentStatusAccepted, constants.AssignmentStatusCompleted:
		return nil
	case constants.AssignmentStatusAssigned, constants.AssignmentStatusApplied:
	default:
		return apperrors.ErrInvalidState
	}

	if err := s.checkCapacity(ctx, task); err != nil {
		return err
	}
	if err := s.assignmentRepo.UpdateStatus(ctx, assignment.ID, constants.AssignmentStatusAccepted); err != nil {
		return err
	}
	s.refreshTaskStatus(ctx, taskID)
	return nil
}

// Reject — отказ исполнителя от задачи с необязательной причиной.
func (s *AssignmentService) Reject(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.RejectTaskDTO) error {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return err
	}
	assignment, err := s.assignmentRepo.FindByTaskAndUser(ctx, taskID, principal.UserID)
	if err != nil {
		return err
	}
	if assignment.Status == constants.AssignmentStatusCompleted {
		return apperrors.ErrInvalidState
	}
	if assignment.Status == constants.AssignmentStatusRejected {
		return nil
	}

	reason := payload.Reason
	if reason != nil && len(*reason) > constants.RejectReasonMaxLen {
		trimmed := (*reason)[:constants.RejectReasonMaxLen]
		reason = &trimmed
	}

	if err := s.assignmentRepo.Reject(ctx, assignment.ID, reason); err != nil {
		return err
	}

	s.notifyTaskManagers(ctx, task, "Отказ от задачи",
		fmt.Sprintf("Сотрудник отказался от задачи «%s»", task.Title))
	s.refreshTaskStatus(ctx, taskID)
	return nil
}

// ApproveRejection — менеджер принимает отказ, назначение снимается.
func (s *AssignmentService) ApproveRejection(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.RejectionDecisionDTO) error {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !authz.CanManage(principal, task.DepartmentID) {
		return apperrors.ErrForbidden
	}

	rejected, err := s.assignmentRepo.GetRejected(ctx, taskID, payload.UserID)
	if err != nil {
		return err
	}
	if len(rejected) == 0 {
		return apperrors.ErrNotFound
	}

	affected := make([]uint64, 0, len(rejected))
	for _, a := range rejected {
		if err := s.assignmentRepo.Delete(ctx, a.ID); err != nil {
			return err
		}
		affected = append(affected, a.UserID)
	}

	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: affected,
		Title:   "Отказ принят",
		Message: fmt.Sprintf("Ваш отказ от задачи «%s» принят, назначение снято", task.Title),
		RefType: "task",
		RefID:   taskID,
	})
	s.refreshTaskStatus(ctx, taskID)
	return nil
}

// DenyRejection — менеджер отклоняет отказ, назначение возвращается в
// рабочий статус (assigned для direct-задач, иначе accepted).
func (s *AssignmentService) DenyRejection(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.RejectionDecisionDTO) error {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !authz.CanManage(principal, task.DepartmentID) {
		return apperrors.ErrForbidden
	}

	rejected, err := s.assignmentRepo.GetRejected(ctx, taskID, payload.UserID)
	if err != nil {
		return err
	}
	if len(rejected) == 0 {
		return apperrors.ErrNotFound
	}

	restoredStatus := constants.AssignmentStatusAccepted
	if task.AssignmentType == constants.AssignmentTypeDirect {
		restoredStatus = constants.AssignmentStatusAssigned
	}

	affected := make([]uint64, 0, len(rejected))
	for _, a := range rejected {
		if err := s.assignmentRepo.UpdateStatus(ctx, a.ID, restoredStatus); err != nil {
			return err
		}
		affected = append(affected, a.UserID)
	}

	s.bus.Publish(ctx, events.NotifyRequestedEvent{
		UserIDs: affected,
		Title:   "Отказ отклонён",
		Message: fmt.Sprintf("Отказ от задачи «%s» отклонён, назначение остаётся за вами", task.Title),
		RefType: "task",
		RefID:   taskID,
	})
	s.refreshTaskStatus(ctx, taskID)
	return nil
}

// UpdateProgress — отчёт исполнителя о прогрессе; 100% завершает
// назначение, неполный прогресс статуса не меняет.
func (s *AssignmentService) UpdateProgress(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.UpdateProgressDTO) error {
	if _, err := s.taskRepo.FindTask(ctx, taskID); err != nil {
		return err
	}
	assignment, err := s.assignmentRepo.FindByTaskAndUser(ctx, taskID, principal.UserID)
	if err != nil {
		return err
	}

	status := assignment.Status
	if payload.Progress >= 100 {
		status = constants.AssignmentStatusCompleted
	}

	if err := s.assignmentRepo.UpdateProgress(ctx, assignment.ID, payload.Progress, status); err != nil {
		return err
	}
	s.refreshTaskStatus(ctx, taskID)
	return nil
}
