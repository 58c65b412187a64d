// Файл: internal/repositories/event-repository.go
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

const eventTable = "events"
const eventSelectFields = "e.id, e.title, e.description, e.start_time, e.end_time, e.status, e.type, e.room_id, e.created_by_id, e.department_id, e.is_global, e.repeat, e.created_at, e.updated_at"

var eventAllowedFilterFields = map[string]bool{"status": true, "type": true, "department_id": true, "room_id": true, "created_by_id": true}

// EventVisibilityScope — параметры видимости списка для не-админов:
// свои, участвуемые, глобальные и события своего департамента.
type EventVisibilityScope struct {
	UserID       uint64
	DepartmentID *uint64
	All          bool
}

type EventRepositoryInterface interface {
	GetEvents(ctx context.Context, filter types.Filter, scope EventVisibilityScope) ([]entities.Event, uint64, error)
	FindEvent(ctx context.Context, id uint64) (*entities.Event, error)
	CreateEvent(ctx context.Context, event entities.Event) (*entities.Event, error)
	UpdateEvent(ctx context.Context, id uint64, payload dto.UpdateEventDTO) (*entities.Event, error)
	UpdateEventStatus(ctx context.Context, id uint64, status string) error
	DeleteEvent(ctx context.Context, id uint64) error
	// FindRoomConflict ищет одобренное событие, занимающее комнату в окне
	// [start, end); excludeID исключает само редактируемое событие.
	FindRoomConflict(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) (*entities.Event, error)
	// FindApprovedTrips возвращает одобренные командировки пользователя,
	// чьи границы касаются окна [start, end] включительно. Точную проверку
	// пересечения выполняет вызывающая сторона.
	FindApprovedTrips(ctx context.Context, userID uint64, start, end time.Time) ([]entities.Event, error)
	FindEventsInWindow(ctx context.Context, from, to time.Time, statuses []string) ([]entities.Event, error)
}

type EventRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEventRepository(storage *pgxpool.Pool, logger *zap.Logger) EventRepositoryInterface {
	return &EventRepository{storage: storage, logger: logger}
}

func scanEvent(row pgx.Row) (*entities.Event, error) {
	var e entities.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.Status, &e.Type, &e.RoomID, &e.CreatedByID, &e.DepartmentID,
		&e.IsGlobal, &e.Repeat, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) GetEvents(ctx context.Context, filter types.Filter, scope EventVisibilityScope) ([]entities.Event, uint64, error) {
	conditions := []string{}
	args := []interface{}{}

	if !scope.All {
		visibility := []string{
			fmt.Sprintf("e.created_by_id = $%d", len(args)+1),
			"e.is_global = TRUE",
			fmt.Sprintf("EXISTS (SELECT 1 FROM event_participants p WHERE p.event_id = e.id AND p.user_id = $%d)", len(args)+1),
		}
		args = append(args, scope.UserID)
		if scope.DepartmentID != nil {
			visibility = append(visibility, fmt.Sprintf("e.department_id = $%d", len(args)+1))
			args = append(args, *scope.DepartmentID)
		}
		conditions = append(conditions, "("+strings.Join(visibility, " OR ")+")")
	}

	for key, value := range filter.Filter {
		if !eventAllowedFilterFields[key] {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("e.%s = $%d", key, len(args)+1))
		args = append(args, value)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("e.title ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(e.id) FROM %s e %s", eventTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета событий: %w", err)
	}
	if total == 0 {
		return []entities.Event{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s e %s ORDER BY e.start_time ASC %s", eventSelectFields, eventTable, whereClause, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]entities.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, *event)
	}
	return events, total, rows.Err()
}

func (r *EventRepository) FindEvent(ctx context.Context, id uint64) (*entities.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM %s e WHERE e.id = $1", eventSelectFields, eventTable)
	return scanEvent(r.storage.QueryRow(ctx, query, id))
}

func (r *EventRepository) CreateEvent(ctx context.Context, event entities.Event) (*entities.Event, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO %s (title, description, start_time, end_time, status, type, room_id, created_by_id, department_id, is_global, repeat)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id
		) SELECT %s FROM %s e WHERE e.id = (SELECT id FROM ins)
	`, eventTable, eventSelectFields, eventTable)

	return scanEvent(r.storage.QueryRow(ctx, query,
		event.Title, event.Description, event.StartTime, event.EndTime,
		event.Status, event.Type, event.RoomID, event.CreatedByID,
		event.DepartmentID, event.IsGlobal, event.Repeat,
	))
}

func (r *EventRepository) UpdateEvent(ctx context.Context, id uint64, payload dto.UpdateEventDTO) (*entities.Event, error) {
	updateBuilder := sq.Update(eventTable).
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
	if payload.RoomID != nil {
		updateBuilder = updateBuilder.Set("room_id", *payload.RoomID)
		hasChanges = true
	}
	if payload.IsGlobal != nil {
		updateBuilder = updateBuilder.Set("is_global", *payload.IsGlobal)
		hasChanges = true
	}
	if payload.Repeat != nil {
		updateBuilder = updateBuilder.Set("repeat", *payload.Repeat)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindEvent(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + strings.ReplaceAll(eventSelectFields, "e.", "")).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEvent(r.storage.QueryRow(ctx, query, args...))
}

func (r *EventRepository) UpdateEventStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx, `UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EventRepository) FindRoomConflict(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) (*entities.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s e
		WHERE e.room_id = $1 AND e.id <> $2
		  AND e.status IN ($3, $4)
		  AND e.start_time < $6 AND e.end_time > $5
		LIMIT 1`, eventSelectFields, eventTable)
	return scanEvent(r.storage.QueryRow(ctx, query,
		roomID, excludeID, constants.EventStatusPending, constants.EventStatusApproved, start, end,
	))
}

func (r *EventRepository) FindApprovedTrips(ctx context.Context, userID uint64, start, end time.Time) ([]entities.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s e
		WHERE e.type = $2 AND e.status = $3
		  AND e.start_time <= $5 AND e.end_time >= $4
		  AND (e.created_by_id = $1 OR EXISTS (
			SELECT 1 FROM event_participants p WHERE p.event_id = e.id AND p.user_id = $1
		  ))
		ORDER BY e.start_time ASC`, eventSelectFields, eventTable)
	rows, err := r.storage.Query(ctx, query,
		userID, constants.EventTypeWork, constants.EventStatusApproved, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]entities.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *EventRepository) FindEventsInWindow(ctx context.Context, from, to time.Time, statuses []string) ([]entities.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s e
		WHERE e.start_time >= $1 AND e.start_time < $2 AND e.status = ANY($3)
		ORDER BY e.start_time ASC`, eventSelectFields, eventTable)
	rows, err := r.storage.Query(ctx, query, from, to, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]entities.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}
