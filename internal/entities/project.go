package entities

import (
	"github.com/aarondl/null/v8"

	"github.com/wwwwwwmw/DA-BE/pkg/types"
)

type Project struct {
	ID           uint64      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Description  null.String `json:"description" db:"description"`
	DepartmentID *uint64     `json:"department_id" db:"department_id"`

	types.BaseEntity
}
