package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

func TestCanManage(t *testing.T) {
	dept1 := utils.Uint64Ptr(1)
	dept2 := utils.Uint64Ptr(2)

	admin := &Principal{UserID: 1, Role: constants.RoleAdmin}
	manager := &Principal{UserID: 2, Role: constants.RoleManager, DepartmentID: dept1}
	employee := &Principal{UserID: 3, Role: constants.RoleEmployee, DepartmentID: dept1}

	assert.True(t, CanManage(admin, dept2))
	assert.True(t, CanManage(admin, nil))

	assert.True(t, CanManage(manager, dept1))
	assert.False(t, CanManage(manager, dept2))
	assert.False(t, CanManage(manager, nil))

	assert.False(t, CanManage(employee, dept1))
}

func TestCanEditBeforeWindow(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	before := now.Add(time.Second)
	after := now.Add(-time.Second)

	manager := &Principal{UserID: 2, Role: constants.RoleManager}
	admin := &Principal{UserID: 1, Role: constants.RoleAdmin}

	// Менеджер успевает за секунду до начала, но не после.
	assert.True(t, CanEditBeforeWindow(manager, &before, nil, now))
	assert.False(t, CanEditBeforeWindow(manager, &after, nil, now))
	assert.False(t, CanEditBeforeWindow(manager, &now, nil, now))

	// Без start граница — конец окна.
	assert.True(t, CanEditBeforeWindow(manager, nil, &before, now))
	assert.False(t, CanEditBeforeWindow(manager, nil, &after, now))

	// Без границ окна задача редактируема всегда.
	assert.True(t, CanEditBeforeWindow(manager, nil, nil, now))

	// Админ не ограничен сроком.
	assert.True(t, CanEditBeforeWindow(admin, &after, nil, now))
}

func TestCanSeeEvent(t *testing.T) {
	dept1 := utils.Uint64Ptr(1)
	dept2 := utils.Uint64Ptr(2)
	employee := &Principal{UserID: 3, Role: constants.RoleEmployee, DepartmentID: dept1}

	assert.True(t, CanSeeEvent(employee, true, dept2, 99, false))   // глобальное
	assert.True(t, CanSeeEvent(employee, false, dept1, 99, false))  // свой департамент
	assert.True(t, CanSeeEvent(employee, false, dept2, 3, false))   // создатель
	assert.True(t, CanSeeEvent(employee, false, dept2, 99, true))   // участник
	assert.False(t, CanSeeEvent(employee, false, dept2, 99, false)) // чужое
}
