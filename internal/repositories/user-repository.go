// Файл: internal/repositories/user-repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

const userTable = "users"
const userSelectFields = "u.id, u.name, u.email, u.password, u.role, u.department_id, u.failed_login_attempts, u.is_locked, u.created_at, u.updated_at"

var userAllowedFilterFields = map[string]bool{"role": true, "department_id": true, "is_locked": true}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, entity *entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
	UpdatePassword(ctx context.Context, userID uint64, newPasswordHash string) error
	RegisterLoginFailure(ctx context.Context, userID uint64, lockThreshold int) (attempts int, locked bool, err error)
	ResetLoginFailures(ctx context.Context, userID uint64) error
	SetLocked(ctx context.Context, userID uint64, locked bool) error
	FindManagersByDepartment(ctx context.Context, departmentID uint64) ([]entities.User, error)
	FindUsersByIDs(ctx context.Context, ids []uint64) ([]entities.User, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.DepartmentID, &user.FailedLoginAttempts, &user.IsLocked,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}
	return &user, nil
}

func mapUserWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "users_email_key") {
			return apperrors.NewHttpError(http.StatusBadRequest, "Email уже используется.", err)
		}
		if pgErr.Code == "23503" {
			return apperrors.NewHttpError(http.StatusBadRequest, "Указан несуществующий департамент.", err)
		}
	}
	return err
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	conditions := []string{}
	args := []interface{}{}

	for key, value := range filter.Filter {
		if !userAllowedFilterFields[key] {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("u.%s = $%d", key, len(args)+1))
		args = append(args, value)
	}
	if filter.Search != "" {
		placeholder := fmt.Sprintf("$%d", len(args)+1)
		conditions = append(conditions, fmt.Sprintf("(u.name ILIKE %s OR u.email ILIKE %s)", placeholder, placeholder))
		args = append(args, "%"+filter.Search+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(u.id) FROM %s u %s", userTable, whereClause)
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	limitClause := ""
	if filter.WithPagination {
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf("SELECT %s FROM %s u %s ORDER BY u.id DESC %s", userSelectFields, userTable, whereClause, limitClause)
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u WHERE u.id = $1", userSelectFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u WHERE u.email = $1 LIMIT 1", userSelectFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, entity *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO %s (name, email, password, role, department_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		) SELECT %s FROM %s u WHERE u.id = (SELECT id FROM ins)
	`, userTable, userSelectFields, userTable)

	created, err := scanUser(r.storage.QueryRow(ctx, query,
		entity.Name, entity.Email, entity.Password, entity.Role, entity.DepartmentID,
	))
	if err != nil {
		return nil, mapUserWriteError(err)
	}
	return created, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	updateBuilder := sq.Update(userTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Email != nil {
		updateBuilder = updateBuilder.Set("email", *payload.Email)
		hasChanges = true
	}
	if payload.Role != nil {
		updateBuilder = updateBuilder.Set("role", *payload.Role)
		hasChanges = true
	}
	if payload.DepartmentID != nil {
		updateBuilder = updateBuilder.Set("department_id", *payload.DepartmentID)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindUserByID(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + strings.ReplaceAll(userSelectFields, "u.", "")).ToSql()
	if err != nil {
		return nil, err
	}
	updated, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapUserWriteError(err)
	}
	return updated, nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, newPasswordHash string) error {
	result, err := r.storage.Exec(ctx, `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, newPasswordHash, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RegisterLoginFailure атомарно увеличивает счётчик неудачных входов
// и блокирует учётную запись при достижении порога.
func (r *UserRepository) RegisterLoginFailure(ctx context.Context, userID uint64, lockThreshold int) (int, bool, error) {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    is_locked = (failed_login_attempts + 1 >= $2),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, is_locked`
	var attempts int
	var locked bool
	err := r.storage.QueryRow(ctx, query, userID, lockThreshold).Scan(&attempts, &locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, apperrors.ErrNotFound
	}
	if err != nil {
		return 0, false, err
	}
	return attempts, locked, nil
}

func (r *UserRepository) ResetLoginFailures(ctx context.Context, userID uint64) error {
	_, err := r.storage.Exec(ctx, `UPDATE users SET failed_login_attempts = 0, is_locked = FALSE, updated_at = NOW() WHERE id = $1`, userID)
	return err
}

func (r *UserRepository) SetLocked(ctx context.Context, userID uint64, locked bool) error {
	result, err := r.storage.Exec(ctx, `UPDATE users SET is_locked = $2, failed_login_attempts = 0, updated_at = NOW() WHERE id = $1`, userID, locked)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindManagersByDepartment возвращает менеджеров департамента,
// а при их отсутствии — пустой срез (фолбэк решает сервис).
func (r *UserRepository) FindManagersByDepartment(ctx context.Context, departmentID uint64) ([]entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s u WHERE u.department_id = $1 AND u.role = $2", userSelectFields, userTable)
	rows, err := r.storage.Query(ctx, query, departmentID, constants.RoleManager)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) FindUsersByIDs(ctx context.Context, ids []uint64) ([]entities.User, error) {
	if len(ids) == 0 {
		return []entities.User{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s u WHERE u.id = ANY($1)", userSelectFields, userTable)
	rows, err := r.storage.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
