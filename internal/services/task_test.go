// Файл: internal/services/task_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wwwwwwmw/DA-BE/internal/authz"
	"github.com/wwwwwwmw/DA-BE/internal/dto"
	"github.com/wwwwwwmw/DA-BE/internal/entities"
	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	apperrors "github.com/wwwwwwmw/DA-BE/pkg/errors"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

type taskFixture struct {
	taskRepo   *fakeTaskRepo
	assignRepo *fakeAssignmentRepo
	userRepo   *fakeUserRepo
	service    *TaskService
}

func newTaskFixture() *taskFixture {
	dept := uint64(1)
	f := &taskFixture{
		taskRepo:   newFakeTaskRepo(),
		assignRepo: newFakeAssignmentRepo(),
		userRepo: newFakeUserRepo(
			entities.User{ID: 1, Name: "Админ", Email: "admin@example.com", Role: constants.RoleAdmin},
			entities.User{ID: 2, Name: "Менеджер", Email: "manager@example.com", Role: constants.RoleManager, DepartmentID: &dept},
			entities.User{ID: 3, Name: "Сотрудник", Email: "employee@example.com", Role: constants.RoleEmployee, DepartmentID: &dept},
		),
	}
	bus := newTestBus()
	logger := zap.NewNop()
	trips := newFakeTripService()
	assignmentService := NewAssignmentService(f.taskRepo, f.assignRepo, f.userRepo, trips, bus, logger)
	f.service = NewTaskService(f.taskRepo, f.assignRepo, newFakeCommentRepo(), f.userRepo, assignmentService, bus, logger)
	return f
}

func adminPrincipal() *authz.Principal {
	return &authz.Principal{UserID: 1, Role: constants.RoleAdmin}
}

func deptManagerPrincipal() *authz.Principal {
	dept := uint64(1)
	return &authz.Principal{UserID: 2, Role: constants.RoleManager, DepartmentID: &dept}
}

func (f *taskFixture) addProjectTask(projectID uint64, weight *int) *entities.Task {
	dept := uint64(1)
	return f.taskRepo.add(entities.Task{
		Title:          "Задача проекта",
		Status:         constants.TaskStatusTodo,
		Priority:       constants.TaskPriorityNormal,
		AssignmentType: constants.AssignmentTypeOpen,
		Capacity:       1,
		Weight:         null.IntFromPtr(weight),
		ProjectID:      &projectID,
		DepartmentID:   &dept,
		CreatedByID:    1,
	})
}

func TestTaskCreate_AppliesDefaults(t *testing.T) {
	f := newTaskFixture()

	created, err := f.service.CreateTask(context.Background(), adminPrincipal(), dto.CreateTaskDTO{Title: "Новая задача"})
	require.NoError(t, err)

	assert.Equal(t, constants.TaskStatusTodo, created.Status)
	assert.Equal(t, constants.TaskPriorityNormal, created.Priority)
	assert.Equal(t, constants.AssignmentTypeOpen, created.AssignmentType)
	assert.Equal(t, 1, created.Capacity)
	assert.Nil(t, created.Weight)
}

func TestTaskCreate_EmployeeForbidden(t *testing.T) {
	f := newTaskFixture()
	dept := uint64(1)
	employee := &authz.Principal{UserID: 3, Role: constants.RoleEmployee, DepartmentID: &dept}

	_, err := f.service.CreateTask(context.Background(), employee, dto.CreateTaskDTO{Title: "Нельзя"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTaskCreate_ManagerPinnedToOwnDepartment(t *testing.T) {
	f := newTaskFixture()
	foreignDept := uint64(9)

	created, err := f.service.CreateTask(context.Background(), deptManagerPrincipal(), dto.CreateTaskDTO{
		Title:        "Задача департамента",
		DepartmentID: &foreignDept,
	})
	require.NoError(t, err)

	// Департамент менеджера важнее указанного в запросе.
	require.NotNil(t, created.DepartmentID)
	assert.Equal(t, uint64(1), *created.DepartmentID)
}

func TestTaskCreate_WeightBudgetEnforced(t *testing.T) {
	f := newTaskFixture()
	f.addProjectTask(10, utils.IntPtr(70))
	projectID := uint64(10)

	_, err := f.service.CreateTask(context.Background(), adminPrincipal(), dto.CreateTaskDTO{
		Title:     "Слишком тяжёлая",
		Weight:    utils.IntPtr(40),
		ProjectID: &projectID,
	})
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Contains(t, httpErr.Message, "110")

	// Ровно до 100 — допустимо.
	_, err = f.service.CreateTask(context.Background(), adminPrincipal(), dto.CreateTaskDTO{
		Title:     "В самый раз",
		Weight:    utils.IntPtr(30),
		ProjectID: &projectID,
	})
	assert.NoError(t, err)
}

func TestTaskUpdate_WeightBudgetExcludesSelf(t *testing.T) {
	f := newTaskFixture()
	task := f.addProjectTask(10, utils.IntPtr(70))
	f.addProjectTask(10, utils.IntPtr(10))
	ctx := context.Background()

	// 90 + 10 (сосед) = 100 — собственный старый вес не учитывается.
	_, err := f.service.UpdateTask(ctx, adminPrincipal(), task.ID, dto.UpdateTaskDTO{Weight: utils.IntPtr(90)})
	require.NoError(t, err)

	_, err = f.service.UpdateTask(ctx, adminPrincipal(), task.ID, dto.UpdateTaskDTO{Weight: utils.IntPtr(95)})
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Contains(t, httpErr.Message, "105")
}

func TestTaskUpdate_AutoWeightSkipsBudgetCheck(t *testing.T) {
	f := newTaskFixture()
	task := f.addProjectTask(10, utils.IntPtr(70))
	f.addProjectTask(10, utils.IntPtr(30))

	// Возврат в автораспределение проходит даже при занятом бюджете.
	updated, err := f.service.UpdateTask(context.Background(), adminPrincipal(), task.ID, dto.UpdateTaskDTO{
		Weight:     utils.IntPtr(99),
		AutoWeight: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Weight)
}

func TestTaskUpdate_EditWindowClosedForManager(t *testing.T) {
	f := newTaskFixture()
	dept := uint64(1)
	start := mustParse(t, "2026-03-01T10:00:00Z")
	task := f.taskRepo.add(entities.Task{
		Title:          "Стартовавшая задача",
		Status:         constants.TaskStatusTodo,
		Priority:       constants.TaskPriorityNormal,
		AssignmentType: constants.AssignmentTypeOpen,
		Capacity:       1,
		StartTime:      null.TimeFrom(start),
		DepartmentID:   &dept,
		CreatedByID:    2,
	})
	// Часы сервиса — спустя час после начала окна.
	f.service.now = func() time.Time { return start.Add(time.Hour) }

	_, err := f.service.UpdateTask(context.Background(), deptManagerPrincipal(), task.ID, dto.UpdateTaskDTO{Title: utils.StringPtr("Поздно")})
	assert.ErrorIs(t, err, apperrors.ErrEditWindowClosed)

	// Администратор сроком не ограничен.
	_, err = f.service.UpdateTask(context.Background(), adminPrincipal(), task.ID, dto.UpdateTaskDTO{Title: utils.StringPtr("Админу можно")})
	assert.NoError(t, err)

	// До начала окна менеджер редактирует свободно.
	f.service.now = func() time.Time { return start.Add(-time.Hour) }
	_, err = f.service.UpdateTask(context.Background(), deptManagerPrincipal(), task.ID, dto.UpdateTaskDTO{Title: utils.StringPtr("Вовремя")})
	assert.NoError(t, err)
}

func TestTaskFind_ReportsEffectiveWeight(t *testing.T) {
	f := newTaskFixture()
	f.addProjectTask(10, utils.IntPtr(70))
	auto := f.addProjectTask(10, nil)
	f.addProjectTask(10, nil)

	found, err := f.service.FindTask(context.Background(), adminPrincipal(), auto.ID)
	require.NoError(t, err)

	// Остаток 30 делится между двумя автозадачами.
	require.NotNil(t, found.EffectiveWeight)
	assert.Equal(t, 15, *found.EffectiveWeight)
	assert.Nil(t, found.Weight)
}

func TestTaskCreate_AssigneesAttached(t *testing.T) {
	f := newTaskFixture()

	created, err := f.service.CreateTask(context.Background(), adminPrincipal(), dto.CreateTaskDTO{
		Title:       "С исполнителями",
		Capacity:    2,
		AssigneeIDs: []uint64{2, 3},
	})
	require.NoError(t, err)
	require.Len(t, created.Assignments, 2)
	for _, a := range created.Assignments {
		assert.Equal(t, constants.AssignmentStatusAccepted, a.Status)
	}
}

func TestTaskDelete_RespectsEditWindow(t *testing.T) {
	f := newTaskFixture()
	dept := uint64(1)
	start := mustParse(t, "2026-03-01T10:00:00Z")
	task := f.taskRepo.add(entities.Task{
		Title:          "Удаляемая",
		Status:         constants.TaskStatusTodo,
		Priority:       constants.TaskPriorityNormal,
		AssignmentType: constants.AssignmentTypeOpen,
		Capacity:       1,
		StartTime:      null.TimeFrom(start),
		DepartmentID:   &dept,
		CreatedByID:    2,
	})
	f.service.now = func() time.Time { return start.Add(time.Minute) }

	err := f.service.DeleteTask(context.Background(), deptManagerPrincipal(), task.ID)
	assert.ErrorIs(t, err, apperrors.ErrEditWindowClosed)

	require.NoError(t, f.service.DeleteTask(context.Background(), adminPrincipal(), task.ID))
	_, err = f.taskRepo.FindTask(context.Background(), task.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
