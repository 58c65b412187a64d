// Файл: internal/services/task.go
package services

import (
	"context"
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

type TaskService struct {
	taskRepo          repositories.TaskRepositoryInterface
	assignmentRepo    repositories.AssignmentRepositoryInterface
	commentRepo       repositories.CommentRepositoryInterface
	userRepo          repositories.UserRepositoryInterface
	assignmentService AssignmentServiceInterface
	bus               *eventbus.Bus
	logger            *zap.Logger
	now               func() time.Time
}

func NewTaskService(
	taskRepo repositories.TaskRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	commentRepo repositories.CommentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	assignmentService AssignmentServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:          taskRepo,
		assignmentRepo:    assignmentRepo,
		commentRepo:       commentRepo,
		userRepo:          userRepo,
		assignmentService: assignmentService,
		bus:               bus,
		logger:            logger,
		now:               time.Now,
	}
}

// validateWeightBudget отклоняет явный вес, из-за которого сумма явных
// весов задач проекта превысила бы 100.
func (s *TaskService) validateWeightBudget(ctx context.Context, projectID, excludeTaskID uint64, newWeight int) error {
	siblings, err := s.taskRepo.GetSiblings(ctx, projectID, excludeTaskID)
	if err != nil {
		return err
	}
	used := newWeight
	for _, t := range siblings {
		if t.Weight.Valid {
			used += t.Weight.Int
		}
	}
	if used > 100 {
		return apperrors.NewValidationError(
			fmt.Sprintf("Суммарный вес задач проекта не может превышать 100 (получилось %d).", used))
	}
	return nil
}

func (s *TaskService) mapTaskToResponse(ctx context.Context, task entities.Task, detailed bool) (*dto.TaskResponseDTO, error) {
	resp := &dto.TaskResponseDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description.Ptr(),
		Status:         task.Status,
		Priority:       task.Priority,
		AssignmentType: task.AssignmentType,
		Capacity:       task.Capacity,
		Weight:         task.Weight.Ptr(),
		ProjectID:      task.ProjectID,
		DepartmentID:   task.DepartmentID,
		CreatedByID:    task.CreatedByID,
		CreatedAt:      task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      task.UpdatedAt.Format(time.RFC3339),
	}
	if task.StartTime.Valid {
		v := task.StartTime.Time.Format(time.RFC3339)
		resp.StartTime = &v
	}
	if task.EndTime.Valid {
		v := task.EndTime.Time.Format(time.RFC3339)
		resp.EndTime = &v
	}

	if !detailed {
		return resp, nil
	}

	// Фактический вес внутри проекта.
	if task.ProjectID != nil {
		siblings, err := s.taskRepo.GetSiblings(ctx, *task.ProjectID, 0)
		if err != nil {
			return nil, err
		}
		weighted := make([]scheduling.WeightedTask, 0, len(siblings))
		for _, t := range siblings {
			weighted = append(weighted, scheduling.WeightedTask{ID: t.ID, Weight: t.Weight.Ptr()})
		}
		weights := scheduling.EffectiveWeights(weighted)
		if w, ok := weights[task.ID]; ok {
			resp.EffectiveWeight = &w
		}
	}

	assignments, err := s.assignmentRepo.GetByTask(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(assignments))
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[uint64]entities.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	for _, a := range assignments {
		item := dto.AssignmentResponseDTO{
			ID:           a.ID,
			TaskID:       a.TaskID,
			Status:       a.Status,
			Progress:     a.Progress,
			RejectReason: a.RejectReason.Ptr(),
			CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		}
		if u, ok := usersByID[a.UserID]; ok {
			item.User = dto.ShortUserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		resp.Assignments = append(resp.Assignments, item)
	}

	labels, err := s.taskRepo.GetLabels(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	for _, l := range labels {
		resp.Labels = append(resp.Labels, mapLabelToResponse(l))
	}
	return resp, nil
}

func (s *TaskService) GetTasks(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]dto.TaskResponseDTO, uint64, error) {
	scope := repositories.TaskVisibilityScope{
		UserID:       principal.UserID,
		DepartmentID: principal.DepartmentID,
		All:          principal.IsAdmin(),
	}
	tasks, total, err := s.taskRepo.GetTasks(ctx, filter, scope)
	if err != nil {
		s.logger.Error("Ошибка при получении списка задач", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TaskResponseDTO, 0, len(tasks))
	for _, task := range tasks {
		item, err := s.mapTaskToResponse(ctx, task, false)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, nil
}

func (s *TaskService) FindTask(ctx context.Context, principal *authz.Principal, id uint64) (*dto.TaskResponseDTO, error) {
	task, err := s.taskRepo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapTaskToResponse(ctx, *task, true)
}

func (s *TaskService) CreateTask(ctx context.Context, principal *authz.Principal, payload dto.CreateTaskDTO) (*dto.TaskResponseDTO, error) {
	departmentID := payload.DepartmentID
	if !principal.IsAdmin() {
		if !principal.IsManager() {
			return nil, apperrors.ErrForbidden
		}
		departmentID = principal.DepartmentID
	}

	if payload.Weight != nil && payload.ProjectID != nil {
		if err := s.validateWeightBudget(ctx, *payload.ProjectID, 0, *payload.Weight); err != nil {
			return nil, err
		}
	}

	priority := payload.Priority
	if priority == "" {
		priority = constants.TaskPriorityNormal
	}
	assignmentType := payload.AssignmentType
	if assignmentType == "" {
		assignmentType = constants.AssignmentTypeOpen
	}
	capacity := payload.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	task := entities.Task{
		Title:          payload.Title,
		Description:    null.StringFromPtr(payload.Description),
		StartTime:      null.TimeFromPtr(payload.StartTime),
		EndTime:        null.TimeFromPtr(payload.EndTime),
		Status:         constants.TaskStatusTodo,
		Priority:       priority,
		AssignmentType: assignmentType,
		Capacity:       capacity,
		Weight:         null.IntFromPtr(payload.Weight),
		ProjectID:      payload.ProjectID,
		DepartmentID:   departmentID,
		CreatedByID:    principal.UserID,
	}

	created, err := s.taskRepo.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error("Ошибка при создании задачи", zap.Error(err))
		return nil, err
	}

	if len(payload.LabelIDs) > 0 {
		if err := s.taskRepo.SetLabels(ctx, created.ID, payload.LabelIDs); err != nil {
			s.logger.Error("Не удалось установить метки задачи", zap.Uint64("task_id", created.ID), zap.Error(err))
		}
	}

	for _, userID := range payload.AssigneeIDs {
		if _, err := s.assignmentService.Assign(ctx, principal, created.ID, userID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Задача создана", zap.Uint64("id", created.ID), zap.String("title", created.Title))
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "task", Action: "created", ID: created.ID})
	return s.mapTaskToResponse(ctx, *created, true)
}

// checkTaskEditable — право менять задачу: админ всегда, менеджер своего
// департамента строго до начала окна задачи.
func (s *TaskService) checkTaskEditable(principal *authz.Principal, task *entities.Task) error {
	if principal.IsAdmin() {
		return nil
	}
	if !authz.CanManage(principal, task.DepartmentID) {
		return apperrors.ErrForbidden
	}
	if !authz.CanEditBeforeWindow(principal, task.StartTime.Ptr(), task.EndTime.Ptr(), s.now()) {
		return apperrors.ErrEditWindowClosed
	}
	return nil
}

func (s *TaskService) UpdateTask(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateTaskDTO) (*dto.TaskResponseDTO, error) {
	task, err := s.taskRepo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTaskEditable(principal, task); err != nil {
		return nil, err
	}

	if payload.Weight != nil && !payload.AutoWeight && task.ProjectID != nil {
		if err := s.validateWeightBudget(ctx, *task.ProjectID, task.ID, *payload.Weight); err != nil {
			return nil, err
		}
	}

	updated, err := s.taskRepo.UpdateTask(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении задачи", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}

	if payload.LabelIDs != nil {
		if err := s.taskRepo.SetLabels(ctx, id, payload.LabelIDs); err != nil {
			s.logger.Error("Не удалось обновить метки задачи", zap.Uint64("task_id", id), zap.Error(err))
		}
	}

	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "task", Action: "updated", ID: id})
	return s.mapTaskToResponse(ctx, *updated, true)
}

func (s *TaskService) DeleteTask(ctx context.Context, principal *authz.Principal, id uint64) error {
	task, err := s.taskRepo.FindTask(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkTaskEditable(principal, task); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteTask(ctx, id); err != nil {
		s.logger.Error("Ошибка при удалении задачи", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.bus.Publish(ctx, events.ResourceChangedEvent{Resource: "task", Action: "deleted", ID: id})
	return nil
}

func (s *TaskService) GetStats(ctx context.Context, principal *authz.Principal) (*dto.TaskStatsDTO, error) {
	scope := repositories.TaskVisibilityScope{
		UserID:       principal.UserID,
		DepartmentID: principal.DepartmentID,
		All:          principal.IsAdmin(),
	}
	return s.taskRepo.GetStats(ctx, scope, s.now())
}

func (s *TaskService) GetComments(ctx context.Context, principal *authz.Principal, taskID uint64) ([]dto.TaskCommentResponseDTO, error) {
	if _, err := s.taskRepo.FindTask(ctx, taskID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[uint64]entities.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	result := make([]dto.TaskCommentResponseDTO, 0, len(comments))
	for _, c := range comments {
		item := dto.TaskCommentResponseDTO{
			ID:        c.ID,
			TaskID:    c.TaskID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
		if u, ok := usersByID[c.UserID]; ok {
			item.Author = dto.ShortUserDTO{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *TaskService) AddComment(ctx context.Context, principal *authz.Principal, taskID uint64, payload dto.CreateTaskCommentDTO) (*dto.TaskCommentResponseDTO, error) {
	task, err := s.taskRepo.FindTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.CreateComment(ctx, entities.TaskComment{
		TaskID:  taskID,
		UserID:  principal.UserID,
		Content: payload.Content,
	})
	if err != nil {
		return nil, err
	}

	// Уведомляем создателя задачи о чужом комментарии.
	if task.CreatedByID != principal.UserID {
		s.bus.Publish(ctx, events.NotifyRequestedEvent{
			UserIDs: []uint64{task.CreatedByID},
			Title:   "Новый комментарий",
			Message: fmt.Sprintf("К задаче «%s» добавлен комментарий", task.Title),
			RefType: "task",
			RefID:   taskID,
		})
	}

	author, err := s.userRepo.FindUserByID(ctx, principal.UserID)
	resp := &dto.TaskCommentResponseDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
	if err == nil {
		resp.Author = dto.ShortUserDTO{ID: author.ID, Name: author.Name, Email: author.Email}
	}
	return resp, nil
}
