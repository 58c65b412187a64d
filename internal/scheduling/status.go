// Файл: internal/scheduling/status.go
package scheduling

import (
	"time"

	"github.com/wwwwwwmw/DA-BE/pkg/constants"
)

// DeriveTaskStatus выводит статус задачи из её назначений.
//
// Если назначений нет, статус остаётся прежним. Завершённым считается
// назначение со статусом completed либо прогрессом >= 100. Все
// завершены — completed; есть хоть какой-то прогресс — in_progress;
// иначе todo. Второе значение сообщает, отличается ли новый статус от
// текущего.
func DeriveTaskStatus(current string, assignments []AssignmentProgress) (string, bool) {
	total := len(assignments)
	if total == 0 {
		return current, false
	}

	completed := 0
	anyProgress := false
	for _, a := range assignments {
		if a.Status == constants.AssignmentStatusCompleted || a.Progress >= 100 {
			completed++
		}
		if a.Progress > 0 {
			anyProgress = true
		}
	}

	next := constants.TaskStatusTodo
	switch {
	case completed == total:
		next = constants.TaskStatusCompleted
	case anyProgress:
		next = constants.TaskStatusInProgress
	}
	return next, next != current
}

// CanTransitEventStatus проверяет допустимость перехода статуса события.
// Решётка: pending -> approved | rejected, approved -> completed.
func CanTransitEventStatus(from, to string) bool {
	switch from {
	case constants.EventStatusPending:
		return to == constants.EventStatusApproved || to == constants.EventStatusRejected
	case constants.EventStatusApproved:
		return to == constants.EventStatusCompleted
	default:
		return false
	}
}

// EditDeadline возвращает момент, до которого задача открыта для
// редактирования менеджером: начало, а при его отсутствии — конец окна.
// nil означает, что окно не задано и срок не ограничен.
func EditDeadline(start, end *time.Time) *time.Time {
	if start != nil {
		return start
	}
	return end
}
