// Файл: internal/dto/event-dto.go
package dto

import "time"

type CreateEventDTO struct {
	Title       string    `json:"title" validate:"required,min=2,max=255"`
	Description *string   `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`

	Type         string  `json:"type" validate:"required,event_type"`
	RoomID       *uint64 `json:"room_id,omitempty" validate:"omitempty,gt=0"`
	DepartmentID *uint64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	IsGlobal     bool    `json:"is_global"`
	Repeat       *string `json:"repeat,omitempty" validate:"omitempty,max=50"`

	ParticipantIDs []uint64 `json:"participant_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type UpdateEventDTO struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	RoomID      *uint64    `json:"room_id,omitempty" validate:"omitempty,gt=0"`
	IsGlobal    *bool      `json:"is_global,omitempty"`
	Repeat      *string    `json:"repeat,omitempty" validate:"omitempty,max=50"`
}

type UpdateEventStatusDTO struct {
	Status string `json:"status" validate:"required,event_status"`
}

type EventResponseDTO struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`

	RoomID       *uint64 `json:"room_id,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty"`
	IsGlobal     bool    `json:"is_global"`
	Repeat       *string `json:"repeat,omitempty"`

	Creator      ShortUserDTO             `json:"creator"`
	Participants []ParticipantResponseDTO `json:"participants,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
