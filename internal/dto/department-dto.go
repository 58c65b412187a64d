package dto

type CreateDepartmentDTO struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

type UpdateDepartmentDTO struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
}

type DepartmentResponseDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
