package entities

import "github.com/wwwwwwmw/DA-BE/pkg/types"

type TaskComment struct {
	ID      uint64 `json:"id" db:"id"`
	TaskID  uint64 `json:"task_id" db:"task_id"`
	UserID  uint64 `json:"user_id" db:"user_id"`
	Content string `json:"content" db:"content"`

	types.BaseEntity
}
