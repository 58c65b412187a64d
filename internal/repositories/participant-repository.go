// Файл: internal/repositories/participant-repository.go
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

const participantTable = "event_participants"
const participantSelectFields = "id, event_id, user_id, status, adjustment_note, created_at, updated_at"

type ParticipantRepositoryInterface interface {
	GetByEvent(ctx context.Context, eventID uint64) ([]entities.Participant, error)
	FindByEventAndUser(ctx context.Context, eventID, userID uint64) (*entities.Participant, error)
	AddParticipants(ctx context.Context, eventID uint64, userIDs []uint64) error
	UpdateStatus(ctx context.Context, eventID, userID uint64, status string) error
	UpdateAdjustmentNote(ctx context.Context, eventID, userID uint64, note string) error
	Remove(ctx context.Context, eventID, userID uint64) error
	GetUserIDsByEvent(ctx context.Context, eventID uint64) ([]uint64, error)
}

type ParticipantRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewParticipantRepository(storage *pgxpool.Pool, logger *zap.Logger) ParticipantRepositoryInterface {
	return &ParticipantRepository{storage: storage, logger: logger}
}

func scanParticipant(row pgx.Row) (*entities.Participant, error) {
	var p entities.Participant
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.AdjustmentNote, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования participant: %w", err)
	}
	return &p, nil
}

func (r *ParticipantRepository) GetByEvent(ctx context.Context, eventID uint64) ([]entities.Participant, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE event_id = $1 ORDER BY id ASC", participantSelectFields, participantTable)
	rows, err := r.storage.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]entities.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (r *ParticipantRepository) FindByEventAndUser(ctx context.Context, eventID, userID uint64) (*entities.Participant, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE event_id = $1 AND user_id = $2", participantSelectFields, participantTable)
	return scanParticipant(r.storage.QueryRow(ctx, query, eventID, userID))
}

// AddParticipants добавляет пользователей пачкой; уже существующие пары
// (event_id, user_id) молча пропускаются.
func (r *ParticipantRepository) AddParticipants(ctx context.Context, eventID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, user_id, status)
		SELECT $1, unnest($2::bigint[]), 'pending'
		ON CONFLICT (event_id, user_id) DO NOTHING`, participantTable)
	_, err := r.storage.Exec(ctx, query, eventID, userIDs)
	return err
}

func (r *ParticipantRepository) UpdateStatus(ctx context.Context, eventID, userID uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $3, updated_at = NOW() WHERE event_id = $1 AND user_id = $2", participantTable),
		eventID, userID, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ParticipantRepository) UpdateAdjustmentNote(ctx context.Context, eventID, userID uint64, note string) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET adjustment_note = $3, updated_at = NOW() WHERE event_id = $1 AND user_id = $2", participantTable),
		eventID, userID, note)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ParticipantRepository) Remove(ctx context.Context, eventID, userID uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE event_id = $1 AND user_id = $2", participantTable),
		eventID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ParticipantRepository) GetUserIDsByEvent(ctx context.Context, eventID uint64) ([]uint64, error) {
	rows, err := r.storage.Query(ctx,
		fmt.Sprintf("SELECT user_id FROM %s WHERE event_id = $1", participantTable), eventID)
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
