package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
)

const labelTable = "labels"
const labelSelectFields = "id, name, color, created_at, updated_at"

type LabelRepositoryInterface interface {
	GetLabels(ctx context.Context) ([]entities.Label, error)
	FindLabel(ctx context.Context, id uint64) (*entities.Label, error)
	CreateLabel(ctx context.Context, label entities.Label) (*entities.Label, error)
	UpdateLabel(ctx context.Context, id uint64, payload dto.UpdateLabelDTO) (*entities.Label, error)
	DeleteLabel(ctx context.Context, id uint64) error
}

type LabelRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLabelRepository(storage *pgxpool.Pool, logger *zap.Logger) LabelRepositoryInterface {
	return &LabelRepository{storage: storage, logger: logger}
}

func scanLabel(row pgx.Row) (*entities.Label, error) {
	var l entities.Label
	err := row.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования label: %w", err)
	}
	return &l, nil
}

func (r *LabelRepository) GetLabels(ctx context.Context) ([]entities.Label, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", labelSelectFields, labelTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]entities.Label, 0)
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, *label)
	}
	return labels, rows.Err()
}

func (r *LabelRepository) FindLabel(ctx context.Context, id uint64) (*entities.Label, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", labelSelectFields, labelTable)
	return scanLabel(r.storage.QueryRow(ctx, query, id))
}

func (r *LabelRepository) CreateLabel(ctx context.Context, label entities.Label) (*entities.Label, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, color) VALUES ($1, $2) RETURNING %s", labelTable, labelSelectFields)
	created, err := scanLabel(r.storage.QueryRow(ctx, query, label.Name, label.Color))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewHttpError(http.StatusBadRequest, "Метка с таким именем уже существует.", err)
		}
		return nil, err
	}
	return created, nil
}

func (r *LabelRepository) UpdateLabel(ctx context.Context, id uint64, payload dto.UpdateLabelDTO) (*entities.Label, error) {
	updateBuilder := sq.Update(labelTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Color != nil {
		updateBuilder = updateBuilder.Set("color", *payload.Color)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindLabel(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + labelSelectFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanLabel(r.storage.QueryRow(ctx, query, args...))
}

func (r *LabelRepository) DeleteLabel(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
