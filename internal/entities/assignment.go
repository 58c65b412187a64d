// Файл: internal/entities/assignment.go
package entities

import (
	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

// TaskAssignment — назначение задачи исполнителю.
// status: applied | assigned | accepted | rejected | completed
type TaskAssignment struct {
	ID     uint64 `json:"id" db:"id"`
	TaskID uint64 `json:"task_id" db:"task_id"`
	UserID uint64 `json:"user_id" db:"user_id"`

	Status       string      `json:"status" db:"status"`
	Progress     int         `json:"progress" db:"progress"`
	RejectReason null.String `json:"reject_reason" db:"reject_reason"`

	types.BaseEntity
}
