// Файл: internal/dto/assignment-dto.go
package dto

type AssignTaskDTO struct {
	UserID uint64 `json:"user_id" validate:"required,gt=0"`
}

type RejectTaskDTO struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

// RejectionDecisionDTO — решение менеджера по отказу.
// UserID == nil применяет решение ко всем отклонённым назначениям задачи.
type RejectionDecisionDTO struct {
	UserID *uint64 `json:"user_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateProgressDTO struct {
	Progress int `json:"progress" validate:"min=0,max=100"`
}

type AssignmentResponseDTO struct {
	ID           uint64       `json:"id"`
	TaskID       uint64       `json:"task_id"`
	User         ShortUserDTO `json:"user"`
	Status       string       `json:"status"`
	Progress     int          `json:"progress"`
	RejectReason *string      `json:"reject_reason,omitempty"`
	CreatedAt    string       `json:"created_at"`
}
