package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/entities"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
)

const commentTable = "task_comments"
const commentSelectFields = "id, task_id, user_id, content, created_at, updated_at"

type CommentRepositoryInterface interface {
	GetByTask(ctx context.Context, taskID uint64) ([]entities.TaskComment, error)
	CreateComment(ctx context.Context, comment entities.TaskComment) (*entities.TaskComment, error)
	DeleteComment(ctx context.Context, id uint64) error
	FindComment(ctx context.Context, id uint64) (*entities.TaskComment, error)
}

type CommentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCommentRepository(storage *pgxpool.Pool, logger *zap.Logger) CommentRepositoryInterface {
	return &CommentRepository{storage: storage, logger: logger}
}

func scanComment(row pgx.Row) (*entities.TaskComment, error) {
	var c entities.TaskComment
	err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) GetByTask(ctx context.Context, taskID uint64) ([]entities.TaskComment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE task_id = $1 ORDER BY id ASC", commentSelectFields, commentTable)
	rows, err := r.storage.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]entities.TaskComment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment entities.TaskComment) (*entities.TaskComment, error) {
	query := fmt.Sprintf("INSERT INTO %s (task_id, user_id, content) VALUES ($1, $2, $3) RETURNING %s", commentTable, commentSelectFields)
	return scanComment(r.storage.QueryRow(ctx, query, comment.TaskID, comment.UserID, comment.Content))
}

func (r *CommentRepository) FindComment(ctx context.Context, id uint64) (*entities.TaskComment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", commentSelectFields, commentTable)
	return scanComment(r.storage.QueryRow(ctx, query, id))
}

func (r *CommentRepository) DeleteComment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", commentTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
