package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

const roomTable = "rooms"
const roomSelectFields = "id, name, capacity, location, created_at, updated_at"

type RoomRepositoryInterface interface {
	GetRooms(ctx context.Context, filter types.Filter) ([]entities.Room, uint64, error)
	FindRoom(ctx context.Context, id uint64) (*entities.Room, error)
	CreateRoom(ctx context.Context, room entities.Room) (*entities.Room, error)
	UpdateRoom(ctx context.Context, id uint64, payload dto.UpdateRoomDTO) (*entities.Room, error)
	DeleteRoom(ctx context.Context, id uint64) error
}

type RoomRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRoomRepository(storage *pgxpool.Pool, logger *zap.Logger) RoomRepositoryInterface {
	return &RoomRepository{storage: storage, logger: logger}
}

func scanRoom(row pgx.Row) (*entities.Room, error) {
	var room entities.Room
	err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.Location, &room.CreatedAt, &room.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) GetRooms(ctx context.Context, filter types.Filter) ([]entities.Room, uint64, error) {
	conditions := []string{}
	args := []interface{}{}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", roomTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Room{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY id ASC %s", roomSelectFields, roomTable, whereClause, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rooms := make([]entities.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, total, rows.Err()
}

func (r *RoomRepository) FindRoom(ctx context.Context, id uint64) (*entities.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", roomSelectFields, roomTable)
	return scanRoom(r.storage.QueryRow(ctx, query, id))
}

func (r *RoomRepository) CreateRoom(ctx context.Context, room entities.Room) (*entities.Room, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, capacity, location) VALUES ($1, $2, $3) RETURNING %s", roomTable, roomSelectFields)
	return scanRoom(r.storage.QueryRow(ctx, query, room.Name, room.Capacity, room.Location))
}

func (r *RoomRepository) UpdateRoom(ctx context.Context, id uint64, payload dto.UpdateRoomDTO) (*entities.Room, error) {
	updateBuilder := sq.Update(roomTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Capacity != nil {
		updateBuilder = updateBuilder.Set("capacity", *payload.Capacity)
		hasChanges = true
	}
	if payload.Location != nil {
		updateBuilder = updateBuilder.Set("location", *payload.Location)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindRoom(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + roomSelectFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRoom(r.storage.QueryRow(ctx, query, args...))
}

func (r *RoomRepository) DeleteRoom(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
