// Файл: internal/dto/task-dto.go
package dto

import "time"

type CreateTaskDTO struct {
	Title       string  `json:"title" validate:"required,min=2,max=255"`
	Description *string `json:"description,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Priority       string `json:"priority" validate:"omitempty,task_priority"`
	AssignmentType string `json:"assignment_type" validate:"omitempty,assignment_type"`
	Capacity       int    `json:"capacity" validate:"omitempty,gt=0"`

	// nil — вес распределяется автоматически среди задач проекта.
	Weight *int `json:"weight,omitempty" validate:"omitempty,min=0,max=100"`

	ProjectID    *uint64  `json:"project_id,omitempty" validate:"omitempty,gt=0"`
	DepartmentID *uint64  `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	LabelIDs     []uint64 `json:"label_ids,omitempty" validate:"omitempty,dive,gt=0"`
	AssigneeIDs  []uint64 `json:"assignee_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type UpdateTaskDTO struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Priority *string `json:"priority,omitempty" validate:"omitempty,task_priority"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,gt=0"`

	Weight *int `json:"weight,omitempty" validate:"omitempty,min=0,max=100"`
	// true — сбросить явный вес и вернуть задачу в автораспределение.
	AutoWeight bool `json:"auto_weight,omitempty"`

	LabelIDs []uint64 `json:"label_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type TaskResponseDTO struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`

	Status         string `json:"status"`
	Priority       string `json:"priority"`
	AssignmentType string `json:"assignment_type"`
	Capacity       int    `json:"capacity"`

	Weight          *int `json:"weight,omitempty"`
	EffectiveWeight *int `json:"effective_weight,omitempty"`

	ProjectID    *uint64 `json:"project_id,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty"`
	CreatedByID  uint64  `json:"created_by_id"`

	Assignments []AssignmentResponseDTO `json:"assignments,omitempty"`
	Labels      []LabelResponseDTO      `json:"labels,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type TaskStatsDTO struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Overdue    int `json:"overdue"`
}
