// Файл: internal/dto/businesstrip-dto.go
package dto

import "time"

type ConflictCheckDTO struct {
	UserID    uint64     `json:"user_id" validate:"required,gt=0"`
	StartTime time.Time  `json:"start_time" validate:"required"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type BatchConflictCheckDTO struct {
	UserIDs   []uint64   `json:"user_ids" validate:"omitempty,dive,gt=0"`
	StartTime time.Time  `json:"start_time" validate:"required"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type ConflictResultDTO struct {
	UserID      uint64  `json:"user_id"`
	HasConflict bool    `json:"has_conflict"`
	Message     *string `json:"message,omitempty"`
	EventID     *uint64 `json:"event_id,omitempty"`
	EventTitle  *string `json:"event_title,omitempty"`
}
