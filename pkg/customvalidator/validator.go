// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует кастомные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("user_role", isUserRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("event_status", isEventStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("event_type", isEventType); err != nil {
		return err
	}
	if err := v.RegisterValidation("task_status", isTaskStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("task_priority", isTaskPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("assignment_type", isAssignmentType); err != nil {
		return err
	}
	if err := v.RegisterValidation("rsvp_status", isRSVPStatus); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(fl.Field().String())
}

func oneOf(fl validator.FieldLevel, allowed ...string) bool {
	s := fl.Field().String()
	if s == "" {
		return true // пустое значение отсекает required, а не enum-правило
	}
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func isUserRole(fl validator.FieldLevel) bool {
	return oneOf(fl, "admin", "manager", "employee")
}

func isEventStatus(fl validator.FieldLevel) bool {
	return oneOf(fl, "pending", "approved", "rejected", "completed")
}

func isEventType(fl validator.FieldLevel) bool {
	return oneOf(fl, "work", "meeting")
}

func isTaskStatus(fl validator.FieldLevel) bool {
	return oneOf(fl, "todo", "in_progress", "completed")
}

func isTaskPriority(fl validator.FieldLevel) bool {
	return oneOf(fl, "low", "normal", "high", "urgent")
}

func isAssignmentType(fl validator.FieldLevel) bool {
	return oneOf(fl, "open", "direct")
}

func isRSVPStatus(fl validator.FieldLevel) bool {
	return oneOf(fl, "pending", "accepted", "declined")
}
