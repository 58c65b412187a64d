// Файл: internal/entities/task.go
package entities

import (
	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type Task struct {
	ID          uint64      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description null.String `json:"description" db:"description"`

	StartTime null.Time `json:"start_time" db:"start_time"`
	EndTime   null.Time `json:"end_time" db:"end_time"`

	// status: todo | in_progress | completed (выводится из назначений)
	Status string `json:"status" db:"status"`
	// priority: low | normal | high | urgent
	Priority string `json:"priority" db:"priority"`
	// assignment_type: open (самозапись) | direct (только назначение менеджером)
	AssignmentType string `json:"assignment_type" db:"assignment_type"`

	// Максимум одновременных исполнителей в статусах accepted/completed.
	Capacity int `json:"capacity" db:"capacity"`
	// Явный вес 0..100 или NULL — вес распределяется автоматически.
	Weight null.Int `json:"weight" db:"weight"`

	ProjectID    *uint64 `json:"project_id" db:"project_id"`
	DepartmentID *uint64 `json:"department_id" db:"department_id"`
	CreatedByID  uint64  `json:"created_by_id" db:"created_by_id"`

	types.BaseEntity
}
