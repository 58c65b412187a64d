// Файл: internal/repositories/assignment-repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
)

const assignmentTable = "task_assignments"
const assignmentSelectFields = "id, task_id, user_id, status, progress, reject_reason, created_at, updated_at"

type AssignmentRepositoryInterface interface {
	GetByTask(ctx context.Context, taskID uint64) ([]entities.TaskAssignment, error)
	GetByTaskIDs(ctx context.Context, taskIDs []uint64) (map[uint64][]entities.TaskAssignment, error)
	FindByTaskAndUser(ctx context.Context, taskID, userID uint64) (*entities.TaskAssignment, error)
	// CountActive считает назначения, занимающие вместимость задачи
	// (accepted и completed).
	CountActive(ctx context.Context, taskID uint64) (int, error)
	Create(ctx context.Context, assignment entities.TaskAssignment) (*entities.TaskAssignment, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	UpdateProgress(ctx context.Context, id uint64, progress int, status string) error
	Reject(ctx context.Context, id uint64, reason *string) error
	// GetRejected возвращает отклонённые назначения задачи;
	// userID != nil сужает выборку до одного пользователя.
	GetRejected(ctx context.Context, taskID uint64, userID *uint64) ([]entities.TaskAssignment, error)
	Delete(ctx context.Context, id uint64) error
	GetUserIDsByTask(ctx context.Context, taskID uint64) ([]uint64, error)
}

type AssignmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssignmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AssignmentRepositoryInterface {
	return &AssignmentRepository{storage: storage, logger: logger}
}

func scanAssignment(row pgx.Row) (*entities.TaskAssignment, error) {
	var a entities.TaskAssignment
	err := row.Scan(&a.ID, &a.TaskID, &a.UserID, &a.Status, &a.Progress, &a.RejectReason, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования assignment: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepository) GetByTask(ctx context.Context, taskID uint64) ([]entities.TaskAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE task_id = $1 ORDER BY id ASC", assignmentSelectFields, assignmentTable)
	rows, err := r.storage.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]entities.TaskAssignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (r *AssignmentRepository) GetByTaskIDs(ctx context.Context, taskIDs []uint64) (map[uint64][]entities.TaskAssignment, error) {
	result := make(map[uint64][]entities.TaskAssignment, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE task_id = ANY($1) ORDER BY id ASC", assignmentSelectFields, assignmentTable)
	rows, err := r.storage.Query(ctx, query, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		result[a.TaskID] = append(result[a.TaskID], *a)
	}
	return result, rows.Err()
}

func (r *AssignmentRepository) FindByTaskAndUser(ctx context.Context, taskID, userID uint64) (*entities.TaskAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE task_id = $1 AND user_id = $2", assignmentSelectFields, assignmentTable)
	return scanAssignment(r.storage.QueryRow(ctx, query, taskID, userID))
}

func (r *AssignmentRepository) CountActive(ctx context.Context, taskID uint64) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE task_id = $1 AND status IN ($2, $3)", assignmentTable),
		taskID, constants.AssignmentStatusAccepted, constants.AssignmentStatusCompleted,
	).Scan(&count)
	return count, err
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment entities.TaskAssignment) (*entities.TaskAssignment, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (task_id, user_id, status, progress)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, assignmentTable, assignmentSelectFields)

	created, err := scanAssignment(r.storage.QueryRow(ctx, query,
		assignment.TaskID, assignment.UserID, assignment.Status, assignment.Progress,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "task_assignments_task_id_user_id_key") {
				return nil, apperrors.ErrAlreadyAssigned
			}
			if pgErr.Code == "23503" {
				return nil, apperrors.NewHttpError(http.StatusBadRequest, "Указана несуществующая задача или пользователь.", err)
			}
		}
		return nil, err
	}
	return created, nil
}

func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1", assignmentTable), id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) UpdateProgress(ctx context.Context, id uint64, progress int, status string) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET progress = $2, status = $3, updated_at = NOW() WHERE id = $1", assignmentTable),
		id, progress, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) Reject(ctx context.Context, id uint64, reason *string) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $2, reject_reason = $3, updated_at = NOW() WHERE id = $1", assignmentTable),
		id, constants.AssignmentStatusRejected, reason)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) GetRejected(ctx context.Context, taskID uint64, userID *uint64) ([]entities.TaskAssignment, error) {
	conditions := []string{"task_id = $1", "status = $2"}
	args := []interface{}{taskID, constants.AssignmentStatusRejected}
	if userID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *userID)
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY id ASC",
		assignmentSelectFields, assignmentTable, strings.Join(conditions, " AND "))
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]entities.TaskAssignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", assignmentTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) GetUserIDsByTask(ctx context.Context, taskID uint64) ([]uint64, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf("SELECT user_id FROM %s WHERE task_id = $1", assignmentTable), taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
