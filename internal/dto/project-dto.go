package dto

type CreateProjectDTO struct {
	Name         string  `json:"name" validate:"required,min=2,max=255"`
	Description  *string `json:"description,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateProjectDTO struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description  *string `json:"description,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

type ProjectResponseDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty"`

	// Процент выполнения 0..100, средневзвешенный по фактическим весам задач.
	Progress   int `json:"progress"`
	TaskCount  int `json:"task_count"`
	DoneCount  int `json:"done_count"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
