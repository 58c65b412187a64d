package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validator — адаптер go-playground/validator под echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator(v *validator.Validate) *Validator {
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
