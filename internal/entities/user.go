// Файл: internal/entities/user.go
package entities

import (
	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type User struct {
	ID    uint64 `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`

	Password string `json:"-" db:"password"`

	Role         string  `json:"role" db:"role"`
	DepartmentID *uint64 `json:"department_id" db:"department_id"`

	FailedLoginAttempts int  `json:"failed_login_attempts" db:"failed_login_attempts"`
	IsLocked            bool `json:"is_locked" db:"is_locked"`

	types.BaseEntity
}
