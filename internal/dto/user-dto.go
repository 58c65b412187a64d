// Файл: internal/dto/user-dto.go
package dto

type CreateUserDTO struct {
	Name         string  `json:"name" validate:"required,min=2,max=255"`
	Email        string  `json:"email" validate:"required,custom_email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Role         string  `json:"role" validate:"required,user_role"`
	DepartmentID *uint64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateUserDTO struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email        *string `json:"email,omitempty" validate:"omitempty,custom_email"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role         *string `json:"role,omitempty" validate:"omitempty,user_role"`
	DepartmentID *uint64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

type UserResponseDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	DepartmentID *uint64 `json:"department_id"`
	IsLocked     bool    `json:"is_locked"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

type ShortUserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
