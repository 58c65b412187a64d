// Файл: internal/repositories/project-repository.go
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

const projectTable = "projects"
const projectSelectFields = "p.id, p.name, p.description, p.department_id, p.created_at, p.updated_at"

var projectAllowedFilterFields = map[string]bool{"department_id": true}

type ProjectRepositoryInterface interface {
	GetProjects(ctx context.Context, filter types.Filter, departmentID *uint64) ([]entities.Project, uint64, error)
	FindProject(ctx context.Context, id uint64) (*entities.Project, error)
	CreateProject(ctx context.Context, project entities.Project) (*entities.Project, error)
	UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO) (*entities.Project, error)
	DeleteProject(ctx context.Context, id uint64) error
}

type ProjectRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProjectRepository(storage *pgxpool.Pool, logger *zap.Logger) ProjectRepositoryInterface {
	return &ProjectRepository{storage: storage, logger: logger}
}

func scanProject(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.DepartmentID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования project: %w", err)
	}
	return &p, nil
}

// GetProjects возвращает проекты; departmentID != nil ограничивает выборку
// проектами департамента и общими (без департамента).
func (r *ProjectRepository) GetProjects(ctx context.Context, filter types.Filter, departmentID *uint64) ([]entities.Project, uint64, error) {
	conditions := []string{}
	args := []interface{}{}

	if departmentID != nil {
		conditions = append(conditions, fmt.Sprintf("(p.department_id = $%d OR p.department_id IS NULL)", len(args)+1))
		args = append(args, *departmentID)
	}
	for key, value := range filter.Filter {
		if !projectAllowedFilterFields[key] {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("p.%s = $%d", key, len(args)+1))
		args = append(args, value)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(p.id) FROM %s p %s", projectTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Project{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s p %s ORDER BY p.id DESC %s", projectSelectFields, projectTable, whereClause, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]entities.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, *project)
	}
	return projects, total, rows.Err()
}

func (r *ProjectRepository) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM %s p WHERE p.id = $1", projectSelectFields, projectTable)
	return scanProject(r.storage.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project entities.Project) (*entities.Project, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO %s (name, description, department_id) VALUES ($1, $2, $3) RETURNING id
		) SELECT %s FROM %s p WHERE p.id = (SELECT id FROM ins)
	`, projectTable, projectSelectFields, projectTable)
	return scanProject(r.storage.QueryRow(ctx, query, project.Name, project.Description, project.DepartmentID))
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO) (*entities.Project, error) {
	updateBuilder := sq.Update(projectTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.DepartmentID != nil {
		updateBuilder = updateBuilder.Set("department_id", *payload.DepartmentID)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindProject(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + strings.ReplaceAll(projectSelectFields, "p.", "")).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProject(r.storage.QueryRow(ctx, query, args...))
}

func (r *ProjectRepository) DeleteProject(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
