package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrAccountLocked      = fmt.Errorf("учётная запись заблокирована после неудачных попыток входа")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrInvalidUserID           = fmt.Errorf("недопустимый UserID")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Бизнес-правила
	ErrConflict         = fmt.Errorf("конфликт бизнес-правила")
	ErrCapacityExceeded = fmt.Errorf("задача уже заполнена")
	ErrAlreadyAssigned  = fmt.Errorf("пользователь уже подал заявку или назначен")
	ErrEditWindowClosed = fmt.Errorf("редактирование после начала задачи запрещено")
	ErrInvalidState     = fmt.Errorf("переход недопустим для текущего статуса")
)

// HttpError — структурированная ошибка операции: HTTP-код, сообщение для клиента,
// исходная причина и опциональные детали для тела ответа.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, details ...map[string]interface{}) *HttpError {
	httpErr := &HttpError{Code: code, Message: message, Err: err}
	if len(details) > 0 {
		httpErr.Details = details[0]
	}
	return httpErr
}

func NewValidationError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, ErrNotFound)
}

func NewForbiddenError(message string) *HttpError {
	return NewHttpError(http.StatusForbidden, message, ErrForbidden)
}

func NewConflictError(message string, details map[string]interface{}) *HttpError {
	return NewHttpError(http.StatusConflict, message, ErrConflict, details)
}

func NewStateError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrInvalidState)
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
