package entities

import (
	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type Room struct {
	ID       uint64      `json:"id" db:"id"`
	Name     string      `json:"name" db:"name"`
	Capacity int         `json:"capacity" db:"capacity"`
	Location null.String `json:"location" db:"location"`

	types.BaseEntity
}
