// Файл: internal/services/assignment_test.go
package services

import (
	"context"
	"strings"
	"testing"

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

type assignmentFixture struct {
	taskRepo   *fakeTaskRepo
	assignRepo *fakeAssignmentRepo
	userRepo   *fakeUserRepo
	trips      *fakeTripService
	service    AssignmentServiceInterface
}

func newAssignmentFixture() *assignmentFixture {
	dept := uint64(1)
	f := &assignmentFixture{
		taskRepo:   newFakeTaskRepo(),
		assignRepo: newFakeAssignmentRepo(),
		userRepo: newFakeUserRepo(
			entities.User{ID: 1, Name: "Менеджер", Email: "manager@example.com", Role: constants.RoleManager, DepartmentID: &dept},
			entities.User{ID: 2, Name: "Первый", Email: "first@example.com", Role: constants.RoleEmployee, DepartmentID: &dept},
			entities.User{ID: 3, Name: "Второй", Email: "second@example.com", Role: constants.RoleEmployee, DepartmentID: &dept},
			entities.User{ID: 4, Name: "Третий", Email: "third@example.com", Role: constants.RoleEmployee, DepartmentID: &dept},
		),
		trips: newFakeTripService(),
	}
	f.service = NewAssignmentService(f.taskRepo, f.assignRepo, f.userRepo, f.trips, newTestBus(), zap.NewNop())
	return f
}

func (f *assignmentFixture) addTask(assignmentType string, capacity int) *entities.Task {
	dept := uint64(1)
	return f.taskRepo.add(entities.Task{
		Title:          "Подготовить отчёт",
		Status:         constants.TaskStatusTodo,
		Priority:       constants.TaskPriorityNormal,
		AssignmentType: assignmentType,
		Capacity:       capacity,
		DepartmentID:   &dept,
		CreatedByID:    1,
	})
}

func employeePrincipal(userID uint64) *authz.Principal {
	dept := uint64(1)
	return &authz.Principal{UserID: userID, Role: constants.RoleEmployee, DepartmentID: &dept}
}

func managerPrincipal() *authz.Principal {
	dept := uint64(1)
	return &authz.Principal{UserID: 1, Role: constants.RoleManager, DepartmentID: &dept}
}

func TestAssignmentApply_FillsCapacityThenRefuses(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 2)
	ctx := context.Background()

	first, err := f.service.Apply(ctx, employeePrincipal(2), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusAccepted, first.Status)

	_, err = f.service.Apply(ctx, employeePrincipal(3), task.ID)
	require.NoError(t, err)

	// Вместимость исчерпана, третьему места нет.
	_, err = f.service.Apply(ctx, employeePrincipal(4), task.ID)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
}

func TestAssignmentApply_DirectTaskNotSelfServe(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeDirect, 1)

	_, err := f.service.Apply(context.Background(), employeePrincipal(2), task.ID)
	require.Error(t, err)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestAssignmentApply_DuplicateRejected(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 5)
	ctx := context.Background()

	_, err := f.service.Apply(ctx, employeePrincipal(2), task.ID)
	require.NoError(t, err)

	_, err = f.service.Apply(ctx, employeePrincipal(2), task.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)
}

func TestAssignmentAssign_RequiresManagingRights(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)
	ctx := context.Background()

	// Рядовой сотрудник назначать не может.
	_, err := f.service.Assign(ctx, employeePrincipal(2), task.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Менеджер чужого департамента — тоже.
	otherDept := uint64(9)
	foreign := &authz.Principal{UserID: 1, Role: constants.RoleManager, DepartmentID: &otherDept}
	_, err = f.service.Assign(ctx, foreign, task.ID, 3)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAssignmentAssign_UnknownUser(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)

	_, err := f.service.Assign(context.Background(), managerPrincipal(), task.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAssignmentAssign_TripConflictBlocks(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)
	// Окно задачи обязательно для проверки командировок.
	start := mustParse(t, "2026-02-10T09:00:00Z")
	end := mustParse(t, "2026-02-12T18:00:00Z")
	updated, err := f.taskRepo.UpdateTask(context.Background(), task.ID, dto.UpdateTaskDTO{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	f.trips.setConflict(3, "Сотрудник в командировке «Выставка» с 09.02.2026 08:00 по 13.02.2026 20:00")

	_, err = f.service.Assign(context.Background(), managerPrincipal(), updated.ID, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, uint64(3), httpErr.Details["user_id"])
}

func TestAssignmentAssign_DirectAwaitsAcceptance(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeDirect, 1)
	ctx := context.Background()

	created, err := f.service.Assign(ctx, managerPrincipal(), task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusAssigned, created.Status)

	// Исполнитель подтверждает, назначение занимает место.
	require.NoError(t, f.service.Accept(ctx, employeePrincipal(2), task.ID))
	assignment, err := f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusAccepted, assignment.Status)

	// Повторное подтверждение — no-op.
	assert.NoError(t, f.service.Accept(ctx, employeePrincipal(2), task.ID))
}

func TestAssignmentReject_TruncatesLongReason(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)
	ctx := context.Background()

	_, err := f.service.Apply(ctx, employeePrincipal(2), task.ID)
	require.NoError(t, err)

	longReason := strings.Repeat("x", constants.RejectReasonMaxLen+100)
	err = f.service.Reject(ctx, employeePrincipal(2), task.ID, dto.RejectTaskDTO{Reason: &longReason})
	require.NoError(t, err)

	assignment, err := f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusRejected, assignment.Status)
	assert.Len(t, assignment.RejectReason.String, constants.RejectReasonMaxLen)
}

func TestAssignmentRejectionDecisions(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeDirect, 1)
	ctx := context.Background()

	_, err := f.service.Assign(ctx, managerPrincipal(), task.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.service.Accept(ctx, employeePrincipal(2), task.ID))
	require.NoError(t, f.service.Reject(ctx, employeePrincipal(2), task.ID, dto.RejectTaskDTO{}))

	// Отказ отклонён: direct-задача возвращается в assigned.
	err = f.service.DenyRejection(ctx, managerPrincipal(), task.ID, dto.RejectionDecisionDTO{UserID: utils.Uint64Ptr(2)})
	require.NoError(t, err)
	assignment, err := f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusAssigned, assignment.Status)

	// Повторный отказ и его принятие снимают назначение целиком.
	require.NoError(t, f.service.Accept(ctx, employeePrincipal(2), task.ID))
	require.NoError(t, f.service.Reject(ctx, employeePrincipal(2), task.ID, dto.RejectTaskDTO{}))
	err = f.service.ApproveRejection(ctx, managerPrincipal(), task.ID, dto.RejectionDecisionDTO{UserID: utils.Uint64Ptr(2)})
	require.NoError(t, err)
	_, err = f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAssignmentRejectionDecision_NothingToDecide(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)

	err := f.service.ApproveRejection(context.Background(), managerPrincipal(), task.ID, dto.RejectionDecisionDTO{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAssignmentUpdateProgress_CompletesAssignmentAndTask(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)
	ctx := context.Background()

	_, err := f.service.Apply(ctx, employeePrincipal(2), task.ID)
	require.NoError(t, err)

	err = f.service.UpdateProgress(ctx, employeePrincipal(2), task.ID, dto.UpdateProgressDTO{Progress: 50})
	require.NoError(t, err)
	refreshed, err := f.taskRepo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusInProgress, refreshed.Status)

	err = f.service.UpdateProgress(ctx, employeePrincipal(2), task.ID, dto.UpdateProgressDTO{Progress: 100})
	require.NoError(t, err)

	assignment, err := f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusCompleted, assignment.Status)

	// Статус задачи выводится из назначений.
	refreshed, err = f.taskRepo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, refreshed.Status)
}

func TestAssignmentUpdateProgress_PreservesStatusBelowFull(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeDirect, 1)
	ctx := context.Background()

	// Неподтверждённое назначение тоже может отчитываться о прогрессе;
	// статус при неполном прогрессе не меняется.
	_, err := f.service.Assign(ctx, managerPrincipal(), task.ID, 2)
	require.NoError(t, err)

	err = f.service.UpdateProgress(ctx, employeePrincipal(2), task.ID, dto.UpdateProgressDTO{Progress: 40})
	require.NoError(t, err)
	assignment, err := f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusAssigned, assignment.Status)
	assert.Equal(t, 40, assignment.Progress)

	// Полный прогресс завершает назначение, дальнейший отчёт его не откатывает.
	err = f.service.UpdateProgress(ctx, employeePrincipal(2), task.ID, dto.UpdateProgressDTO{Progress: 100})
	require.NoError(t, err)
	err = f.service.UpdateProgress(ctx, employeePrincipal(2), task.ID, dto.UpdateProgressDTO{Progress: 60})
	require.NoError(t, err)
	assignment, err = f.assignRepo.FindByTaskAndUser(ctx, task.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusCompleted, assignment.Status)
	assert.Equal(t, 60, assignment.Progress)
}

func TestAssignmentApply_IgnoresTripSchedule(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 1)
	start := mustParse(t, "2026-02-10T09:00:00Z")
	end := mustParse(t, "2026-02-12T18:00:00Z")
	_, err := f.taskRepo.UpdateTask(context.Background(), task.ID, dto.UpdateTaskDTO{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	f.trips.setConflict(2, "Сотрудник в командировке «Выставка» с 09.02.2026 08:00 по 13.02.2026 20:00")

	// Самозапись командировками не ограничивается — сотрудник сам
	// распоряжается своим графиком.
	created, err := f.service.Apply(context.Background(), employeePrincipal(2), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentStatusAccepted, created.Status)
}

func TestAssignmentRejectedBlocksTaskCompletion(t *testing.T) {
	f := newAssignmentFixture()
	task := f.addTask(constants.AssignmentTypeOpen, 2)
	ctx := context.Background()

	_, err := f.service.Apply(ctx, employeePrincipal(2), task.ID)
	require.NoError(t, err)
	_, err = f.service.Apply(ctx, employeePrincipal(3), task.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.UpdateProgress(ctx, employeePrincipal(2), task.ID, dto.UpdateProgressDTO{Progress: 100}))
	require.NoError(t, f.service.Reject(ctx, employeePrincipal(3), task.ID, dto.RejectTaskDTO{}))

	// Отклонённое назначение остаётся в знаменателе, задача не завершена.
	refreshed, err := f.taskRepo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusInProgress, refreshed.Status)

	// Менеджер принимает отказ — остаётся один завершённый исполнитель.
	require.NoError(t, f.service.ApproveRejection(ctx, managerPrincipal(), task.ID, dto.RejectionDecisionDTO{UserID: utils.Uint64Ptr(3)}))
	refreshed, err = f.taskRepo.FindTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, refreshed.Status)
}
