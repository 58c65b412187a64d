// Файл: internal/repositories/task-repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

const taskTable = "tasks"
const taskSelectFields = "t.id, t.title, t.description, t.start_time, t.end_time, t.status, t.priority, t.assignment_type, t.capacity, t.weight, t.project_id, t.department_id, t.created_by_id, t.created_at, t.updated_at"

var taskAllowedFilterFields = map[string]bool{"status": true, "priority": true, "project_id": true, "department_id": true, "assignment_type": true, "created_by_id": true}

// TaskVisibilityScope — видимость списка задач для не-админов:
// созданные, назначенные и задачи своего департамента.
type TaskVisibilityScope struct {
	UserID       uint64
	DepartmentID *uint64
	All          bool
}

type TaskRepositoryInterface interface {
	GetTasks(ctx context.Context, filter types.Filter, scope TaskVisibilityScope) ([]entities.Task, uint64, error)
	FindTask(ctx context.Context, id uint64) (*entities.Task, error)
	CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error)
	UpdateTask(ctx context.Context, id uint64, payload dto.UpdateTaskDTO) (*entities.Task, error)
	UpdateTaskStatus(ctx context.Context, id uint64, status string) error
	DeleteTask(ctx context.Context, id uint64) error
	// GetSiblings возвращает задачи проекта; excludeID > 0 исключает задачу
	// из выборки (при пересчёте весов редактируемой задачи).
	GetSiblings(ctx context.Context, projectID uint64, excludeID uint64) ([]entities.Task, error)
	GetStats(ctx context.Context, scope TaskVisibilityScope, now time.Time) (*dto.TaskStatsDTO, error)
	SetLabels(ctx context.Context, taskID uint64, labelIDs []uint64) error
	GetLabels(ctx context.Context, taskID uint64) ([]entities.Label, error)
}

type TaskRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTaskRepository(storage *pgxpool.Pool, logger *zap.Logger) TaskRepositoryInterface {
	return &TaskRepository{storage: storage, logger: logger}
}

func scanTask(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.StartTime, &t.EndTime,
		&t.Status, &t.Priority, &t.AssignmentType, &t.Capacity, &t.Weight,
		&t.ProjectID, &t.DepartmentID, &t.CreatedByID, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) GetTasks(ctx context.Context, filter types.Filter, scope TaskVisibilityScope) ([]entities.Task, uint64, error) {
	conditions := []string{}
	args := []interface{}{}

	if !scope.All {
		visibility := []string{
			fmt.Sprintf("t.created_by_id = $%d", len(args)+1),
			fmt.Sprintf("EXISTS (SELECT 1 FROM task_assignments a WHERE a.task_id = t.id AND a.user_id = $%d)", len(args)+1),
		}
		args = append(args, scope.UserID)
		if scope.DepartmentID != nil {
			visibility = append(visibility, fmt.Sprintf("t.department_id = $%d", len(args)+1))
			args = append(args, *scope.DepartmentID)
		}
		conditions = append(conditions, "("+strings.Join(visibility, " OR ")+")")
	}

	for key, value := range filter.Filter {
		if !taskAllowedFilterFields[key] {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("t.%s = $%d", key, len(args)+1))
		args = append(args, value)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("t.title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(t.id) FROM %s t %s", taskTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета задач: %w", err)
	}
	if total == 0 {
		return []entities.Task{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s t %s ORDER BY t.id DESC %s", taskSelectFields, taskTable, whereClause, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]entities.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, total, rows.Err()
}

func (r *TaskRepository) FindTask(ctx context.Context, id uint64) (*entities.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t WHERE t.id = $1", taskSelectFields, taskTable)
	return scanTask(r.storage.QueryRow(ctx, query, id))
}

func (r *TaskRepository) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO %s (title, description, start_time, end_time, status, priority, assignment_type, capacity, weight, project_id, department_id, created_by_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id
		) SELECT %s FROM %s t WHERE t.id = (SELECT id FROM ins)
	`, taskTable, taskSelectFields, taskTable)

	return scanTask(r.storage.QueryRow(ctx, query,
		task.Title, task.Description, task.StartTime, task.EndTime,
		task.Status, task.Priority, task.AssignmentType, task.Capacity,
		task.Weight, task.ProjectID, task.DepartmentID, task.CreatedByID,
	))
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id uint64, payload dto.UpdateTaskDTO) (*entities.Task, error) {
	updateBuilder := sq.Update(taskTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Title != nil {
		updateBuilder = updateBuilder.Set("title", *payload.Title)
		hasChanges = true
	}
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.StartTime != nil {
		updateBuilder = updateBuilder.Set("start_time", *payload.StartTime)
		hasChanges = true
	}
	if payload.EndTime != nil {
		updateBuilder = updateBuilder.Set("end_time", *payload.EndTime)
		hasChanges = true
	}
	if payload.Priority != nil {
		updateBuilder = updateBuilder.Set("priority", *payload.Priority)
		hasChanges = true
	}
	if payload.Capacity != nil {
		updateBuilder = updateBuilder.Set("capacity", *payload.Capacity)
		hasChanges = true
	}
	if payload.AutoWeight {
		updateBuilder = updateBuilder.Set("weight", nil)
		hasChanges = true
	} else if payload.Weight != nil {
		updateBuilder = updateBuilder.Set("weight", *payload.Weight)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindTask(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + strings.ReplaceAll(taskSelectFields, "t.", "")).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTask(r.storage.QueryRow(ctx, query, args...))
}

func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx, `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) GetSiblings(ctx context.Context, projectID uint64, excludeID uint64) ([]entities.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s t WHERE t.project_id = $1 AND t.id <> $2 ORDER BY t.id ASC", taskSelectFields, taskTable)
	rows, err := r.storage.Query(ctx, query, projectID, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entities.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetStats(ctx context.Context, scope TaskVisibilityScope, now time.Time) (*dto.TaskStatsDTO, error) {
	conditions := []string{}
	args := []interface{}{}
	if !scope.All {
		visibility := []string{
			fmt.Sprintf("t.created_by_id = $%d", len(args)+1),
			fmt.Sprintf("EXISTS (SELECT 1 FROM task_assignments a WHERE a.task_id = t.id AND a.user_id = $%d)", len(args)+1),
		}
		args = append(args, scope.UserID)
		if scope.DepartmentID != nil {
			visibility = append(visibility, fmt.Sprintf("t.department_id = $%d", len(args)+1))
			args = append(args, *scope.DepartmentID)
		}
		conditions = append(conditions, "("+strings.Join(visibility, " OR ")+")")
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	nowPlaceholder := fmt.Sprintf("$%d", len(args)+1)
	args = append(args, now)

	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE t.status = '%s'),
		       COUNT(*) FILTER (WHERE t.status = '%s'),
		       COUNT(*) FILTER (WHERE t.status = '%s'),
		       COUNT(*) FILTER (WHERE t.status <> '%s' AND t.end_time IS NOT NULL AND t.end_time < %s)
		FROM %s t %s`,
		constants.TaskStatusTodo, constants.TaskStatusInProgress, constants.TaskStatusCompleted,
		constants.TaskStatusCompleted, nowPlaceholder, taskTable, whereClause)

	var stats dto.TaskStatsDTO
	err := r.storage.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Todo, &stats.InProgress, &stats.Completed, &stats.Overdue)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetLabels заменяет набор меток задачи целиком.
func (r *TaskRepository) SetLabels(ctx context.Context, taskID uint64, labelIDs []uint64) error {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_labels WHERE task_id = $1`, taskID); err != nil {
		return err
	}
	if len(labelIDs) > 0 {
		query := `
			INSERT INTO task_labels (task_id, label_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT (task_id, label_id) DO NOTHING`
		if _, err := tx.Exec(ctx, query, taskID, labelIDs); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *TaskRepository) GetLabels(ctx context.Context, taskID uint64) ([]entities.Label, error) {
	query := `
		SELECT l.id, l.name, l.color, l.created_at, l.updated_at
		FROM labels l
		JOIN task_labels tl ON tl.label_id = l.id
		WHERE tl.task_id = $1
		ORDER BY l.id ASC`
	rows, err := r.storage.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]entities.Label, 0)
	for rows.Next() {
		var l entities.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
