package entities

import (
	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

// Participant — участие пользователя в событии (RSVP).
type Participant struct {
	ID      uint64 `json:"id" db:"id"`
	EventID uint64 `json:"event_id" db:"event_id"`
	UserID  uint64 `json:"user_id" db:"user_id"`

	// status: pending | accepted | declined
	Status         string      `json:"status" db:"status"`
	AdjustmentNote null.String `json:"adjustment_note" db:"adjustment_note"`

	types.BaseEntity
}
