// Файл: internal/repositories/notification-repository.go
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
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

const notificationTable = "notifications"
const notificationSelectFields = "id, user_id, title, message, is_read, ref_type, ref_id, created_at, updated_at"

type NotificationRepositoryInterface interface {
	CreateBatch(ctx context.Context, notifications []entities.Notification) ([]entities.Notification, error)
	GetByUser(ctx context.Context, userID uint64, filter types.Filter) ([]entities.Notification, uint64, error)
	CountUnread(ctx context.Context, userID uint64) (uint64, error)
	MarkRead(ctx context.Context, userID, notificationID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type NotificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage, logger: logger}
}

func scanNotification(row pgx.Row) (*entities.Notification, error) {
	var n entities.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.RefType, &n.RefID, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования notification: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []entities.Notification) ([]entities.Notification, error) {
	if len(notifications) == 0 {
		return []entities.Notification{}, nil
	}

	userIDs := make([]uint64, 0, len(notifications))
	for _, n := range notifications {
		userIDs = append(userIDs, n.UserID)
	}
	first := notifications[0]

	// Все уведомления одной рассылки несут одинаковый текст и ссылку.
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, message, ref_type, ref_id)
		SELECT unnest($1::bigint[]), $2, $3, $4, $5
		RETURNING %s`, notificationTable, notificationSelectFields)

	rows, err := r.storage.Query(ctx, query, userIDs, first.Title, first.Message, first.RefType, first.RefID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	created := make([]entities.Notification, 0, len(notifications))
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, *n)
	}
	return created, rows.Err()
}

func (r *NotificationRepository) GetByUser(ctx context.Context, userID uint64, filter types.Filter) ([]entities.Notification, uint64, error) {
	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", notificationTable)
	if err := r.storage.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Notification{}, 0, nil
	}

	args := []interface{}{userID}
	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1 ORDER BY id DESC %s", notificationSelectFields, notificationTable, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notifications := make([]entities.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, total, rows.Err()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1 AND is_read = FALSE", notificationTable),
		userID).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET is_read = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2", notificationTable),
		notificationID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET is_read = TRUE, updated_at = NOW() WHERE user_id = $1 AND is_read = FALSE", notificationTable),
		userID)
	return err
}
