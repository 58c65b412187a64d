// Файл: internal/entities/event.go
package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type Event struct {
	ID          uint64      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description null.String `json:"description" db:"description"`

	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	// status: pending -> {approved, rejected}, approved -> completed
	Status string `json:"status" db:"status"`
	// type: work (командировка) | meeting (совещание)
	Type string `json:"type" db:"type"`

	RoomID       *uint64 `json:"room_id" db:"room_id"`
	CreatedByID  uint64  `json:"created_by_id" db:"created_by_id"`
	DepartmentID *uint64 `json:"department_id" db:"department_id"`
	IsGlobal     bool    `json:"is_global" db:"is_global"`

	Repeat null.String `json:"repeat" db:"repeat"`

	types.BaseEntity
}
