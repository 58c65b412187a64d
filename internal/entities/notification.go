package entities

import (
	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

// Notification — запись "выстрелил и забыл"; после создания меняется только is_read.
type Notification struct {
	ID      uint64 `json:"id" db:"id"`
	UserID  uint64 `json:"user_id" db:"user_id"`
	Title   string `json:"title" db:"title"`
	Message string `json:"message" db:"message"`
	IsRead  bool   `json:"is_read" db:"is_read"`

	RefType null.String `json:"ref_type" db:"ref_type"`
	RefID   null.Uint64 `json:"ref_id" db:"ref_id"`

	types.BaseEntity
}
