// Файл: internal/authz/authz.go
// Пакет authz — предикаты доступа по ролям и департаментам.
// Вся доменная логика сравнивает роли только здесь, а не в обработчиках.
package authz

import (
	"time"

	"github.com/wwwwwwmw/DA-BE/internal/scheduling"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
)

// Principal — разрешённый контекст запроса: кто и с какими полномочиями.
type Principal struct {
	UserID       uint64
	Role         string
	DepartmentID *uint64
}

func (p *Principal) IsAdmin() bool {
	return p.Role == constants.RoleAdmin
}

func (p *Principal) IsManager() bool {
	return p.Role == constants.RoleManager
}

// SameDepartment сообщает, относится ли субъект к тому же департаменту,
// что и ресурс. Ресурс без департамента (deptID == nil) общий — не совпадает
// ни с кем по департаментному правилу.
func SameDepartment(p *Principal, deptID *uint64) bool {
	return p.DepartmentID != nil && deptID != nil && *p.DepartmentID == *deptID
}

// CanManage — право управлять ресурсом департамента:
// админ управляет всем, менеджер — только своим департаментом.
func CanManage(p *Principal, deptID *uint64) bool {
	if p.IsAdmin() {
		return true
	}
	return p.IsManager() && SameDepartment(p, deptID)
}

// CanEditBeforeWindow — право менеджера редактировать задачу строго до
// начала её окна (fallback — конец окна). Админ не ограничен сроком.
// Задача без границ окна редактируема всегда.
func CanEditBeforeWindow(p *Principal, start, end *time.Time, now time.Time) bool {
	if p.IsAdmin() {
		return true
	}
	deadline := scheduling.EditDeadline(start, end)
	if deadline == nil {
		return true
	}
	return now.Before(*deadline)
}

// CanSeeEvent — видимость события: глобальные и одобренные события без
// департамента видят все, остальное — создатель, участник, админ или
// пользователь того же департамента.
func CanSeeEvent(p *Principal, isGlobal bool, deptID *uint64, creatorID uint64, isParticipant bool) bool {
	if isGlobal || p.IsAdmin() {
		return true
	}
	if creatorID == p.UserID || isParticipant {
		return true
	}
	if deptID == nil {
		return true
	}
	return SameDepartment(p, deptID)
}
