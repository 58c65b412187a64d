package entities

import "github.com/wwwwwwmw/DA-BE/pkg/types"

type Label struct {
	ID    uint64 `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`

	types.BaseEntity
}
