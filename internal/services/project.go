// Файл: internal/services/project.go
package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/internal/repositories"
	"github.com/wwwwwwmw/DA-BE/internal/scheduling"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type ProjectService struct {
	projectRepo    repositories.ProjectRepositoryInterface
	taskRepo       repositories.TaskRepositoryInterface
	assignmentRepo repositories.AssignmentRepositoryInterface
	logger         *zap.Logger
}

func NewProjectService(
	projectRepo repositories.ProjectRepositoryInterface,
	taskRepo repositories.TaskRepositoryInterface,
	assignmentRepo repositories.AssignmentRepositoryInterface,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:    projectRepo,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// loadProjectProgress собирает снимок задач проекта с назначениями и
// считает процент выполнения. Пересчитывается на каждое чтение,
// долговременного кеша нет.
func (s *ProjectService) loadProjectProgress(ctx context.Context, projectID uint64) (progress, taskCount, doneCount int, err error) {
	tasks, err := s.taskRepo.GetSiblings(ctx, projectID, 0)
	if err != nil {
		return 0, 0, 0, err
	}

	taskIDs := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	assignmentsByTask, err := s.assignmentRepo.GetByTaskIDs(ctx, taskIDs)
	if err != nil {
		return 0, 0, 0, err
	}

	snapshot := make([]scheduling.TaskProgress, 0, len(tasks))
	for _, t := range tasks {
		item := scheduling.TaskProgress{
			ID:     t.ID,
			Weight: t.Weight.Ptr(),
			Status: t.Status,
		}
		for _, a := range assignmentsByTask[t.ID] {
			item.Assignments = append(item.Assignments, scheduling.AssignmentProgress{
				Status:   a.Status,
				Progress: a.Progress,
			})
		}
		snapshot = append(snapshot, item)
		if t.Status == constants.TaskStatusCompleted {
			doneCount++
		}
	}
	return scheduling.ProjectProgress(snapshot), len(tasks), doneCount, nil
}

func (s *ProjectService) mapProjectToResponse(ctx context.Context, p entities.Project) (*dto.ProjectResponseDTO, error) {
	progress, taskCount, doneCount, err := s.loadProjectProgress(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectResponseDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description.Ptr(),
		DepartmentID: p.DepartmentID,
		Progress:     progress,
		TaskCount:    taskCount,
		DoneCount:    doneCount,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *ProjectService) GetProjects(ctx context.Context, principal *authz.Principal, filter types.Filter) ([]dto.ProjectResponseDTO, uint64, error) {
	var departmentScope *uint64
	if !principal.IsAdmin() {
		departmentScope = principal.DepartmentID
	}

	projects, total, err := s.projectRepo.GetProjects(ctx, filter, departmentScope)
	if err != nil {
		s.logger.Error("Ошибка при получении списка проектов", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProjectResponseDTO, 0, len(projects))
	for _, p := range projects {
		item, err := s.mapProjectToResponse(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *item)
	}
	return result, total, nil
}

func (s *ProjectService) FindProject(ctx context.Context, principal *authz.Principal, id uint64) (*dto.ProjectResponseDTO, error) {
	project, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && project.DepartmentID != nil && !authz.SameDepartment(principal, project.DepartmentID) {
		return nil, apperrors.ErrForbidden
	}
	return s.mapProjectToResponse(ctx, *project)
}

func (s *ProjectService) CreateProject(ctx context.Context, principal *authz.Principal, payload dto.CreateProjectDTO) (*dto.ProjectResponseDTO, error) {
	departmentID := payload.DepartmentID
	if !principal.IsAdmin() {
		if !principal.IsManager() {
			return nil, apperrors.ErrForbidden
		}
		departmentID = principal.DepartmentID
	}

	project, err := s.projectRepo.CreateProject(ctx, entities.Project{
		Name:         payload.Name,
		Description:  null.StringFromPtr(payload.Description),
		DepartmentID: departmentID,
	})
	if err != nil {
		s.logger.Error("Ошибка при создании проекта", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Проект создан", zap.Uint64("id", project.ID), zap.String("name", project.Name))
	return s.mapProjectToResponse(ctx, *project)
}

func (s *ProjectService) UpdateProject(ctx context.Context, principal *authz.Principal, id uint64, payload dto.UpdateProjectDTO) (*dto.ProjectResponseDTO, error) {
	project, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(principal, project.DepartmentID) {
		return nil, apperrors.ErrForbidden
	}

	updated, err := s.projectRepo.UpdateProject(ctx, id, payload)
	if err != nil {
		s.logger.Error("Ошибка при обновлении проекта", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return s.mapProjectToResponse(ctx, *updated)
}

func (s *ProjectService) DeleteProject(ctx context.Context, principal *authz.Principal, id uint64) error {
	project, err := s.projectRepo.FindProject(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanManage(principal, project.DepartmentID) {
		return apperrors.ErrForbidden
	}

	err = s.projectRepo.DeleteProject(ctx, id)
	if err != nil {
		s.logger.Error("Ошибка при удалении проекта", zap.Uint64("id", id), zap.Error(err))
	}
	return err
}
