// Файл: internal/services/report.go
package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/internal/scheduling"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type ReportServiceInterface interface {
	GetTaskReport(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]dto.TaskReportItemDTO, uint64, error)
}

// ReportService собирает сводку по задачам для выгрузки: исполнители,
// процент выполнения, привязка к проекту.
type ReportService struct {
	taskRepo       repositories.TaskRepositoryInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	projectRepo    repositories.ProjectRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	logger         *zap.Logger
}

func NewReportService(
	taskRepo repositories.TaskRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

func (s *ReportService) GetTaskReport(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]dto.TaskReportItemDTO, uint64, error) {
	scope := repositories.TaskVisibilityScope{
		UserID:       principal.UserID,
		DepartmentID: principal.DepartmentID,
		All:          principal.IsAdmin(),
	}
	tasks, total, err := s.taskRepo.GetTasks(ctx, filter, scope)
	if err != nil {
		s.logger.Error("Ошибка при сборе отчёта по задачам", zap.Error(err))
		return nil, 0, err
	}

	taskIDs := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	assignmentsByTask, err := s.assignmentRepo.GetByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, 0, err
	}

	userIDs := make([]uint64, 0)
	seen := make(map[uint64]struct{})
	for _, assignments := range assignmentsByTask {
		for _, a := range assignments {
			if _, ok := seen[a.UserID]; !ok {
				seen[a.UserID] = struct{}{}
				userIDs = append(userIDs, a.UserID)
			}
		}
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, 0, err
	}
	namesByID := make(map[uint64]string, len(users))
	for _, u := range users {
		namesByID[u.ID] = u.Name
	}

	projectNames := make(map[uint64]string)

	result := make([]dto.TaskReportItemDTO, 0, len(tasks))
	for _, t := range tasks {
		item := dto.TaskReportItemDTO{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			Weight:    t.Weight.Ptr(),
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		}
		if t.StartTime.Valid {
			v := t.StartTime.Time.Format(time.RFC3339)
			item.StartTime = &v
		}
		if t.EndTime.Valid {
			v := t.EndTime.Time.Format(time.RFC3339)
			item.EndTime = &v
		}
		if t.ProjectID != nil {
			name, ok := projectNames[*t.ProjectID]
			if !ok {
				if project, err := s.projectRepo.FindProject(ctx, *t.ProjectID); err == nil {
					name = project.Name
				}
				projectNames[*t.ProjectID] = name
			}
			if name != "" {
				item.ProjectName = &name
			}
		}

		assignments := assignmentsByTask[t.ID]
		names := make([]string, 0, len(assignments))
		snapshot := scheduling.TaskProgress{ID: t.ID, Status: t.Status}
		for _, a := range assignments {
			if name, ok := namesByID[a.UserID]; ok {
				names = append(names, name)
			}
			snapshot.Assignments = append(snapshot.Assignments, scheduling.AssignmentProgress{
				Status:   a.Status,
				Progress: a.Progress,
			})
		}
		item.Assignees = strings.Join(names, ", ")
		item.Progress = int(scheduling.TaskCompletion(snapshot) * 100)

		result = append(result, item)
	}
	return result, total, nil
}
