package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wwwwwwmw/DA-BE/pkg/constants"
)

func TestDeriveTaskStatus_NoAssignments(t *testing.T) {
	status, changed := DeriveTaskStatus(constants.TaskStatusInProgress, nil)
	assert.Equal(t, constants.TaskStatusInProgress, status)
	assert.False(t, changed)
}

func TestDeriveTaskStatus_MixedProgress(t *testing.T) {
	// Завершено одно из трёх (по прогрессу >= 100), есть прогресс — in_progress.
	assignments := []AssignmentProgress{
		{Status: constants.AssignmentStatusAccepted, Progress: 100},
		{Status: constants.AssignmentStatusAccepted, Progress: 0},
		{Status: constants.AssignmentStatusRejected, Progress: 0},
	}
	status, changed := DeriveTaskStatus(constants.TaskStatusTodo, assignments)
	assert.Equal(t, constants.TaskStatusInProgress, status)
	assert.True(t, changed)
}

func TestDeriveTaskStatus_AllCompleted(t *testing.T) {
	assignments := []AssignmentProgress{
		{Status: constants.AssignmentStatusCompleted, Progress: 100},
		{Status: constants.AssignmentStatusAccepted, Progress: 100},
	}
	status, changed := DeriveTaskStatus(constants.TaskStatusInProgress, assignments)
	assert.Equal(t, constants.TaskStatusCompleted, status)
	assert.True(t, changed)
}

func TestDeriveTaskStatus_OnlyProgressStartsTask(t *testing.T) {
	// Завершённое назначение без прогресса само по себе задачу не двигает:
	// in_progress наступает только при фактическом прогрессе.
	assignments := []AssignmentProgress{
		{Status: constants.AssignmentStatusCompleted, Progress: 0},
		{Status: constants.AssignmentStatusAccepted, Progress: 0},
	}
	status, changed := DeriveTaskStatus(constants.TaskStatusTodo, assignments)
	assert.Equal(t, constants.TaskStatusTodo, status)
	assert.False(t, changed)
}

func TestDeriveTaskStatus_AllIdle(t *testing.T) {
	assignments := []AssignmentProgress{
		{Status: constants.AssignmentStatusAccepted, Progress: 0},
		{Status: constants.AssignmentStatusAssigned, Progress: 0},
	}
	status, changed := DeriveTaskStatus(constants.TaskStatusInProgress, assignments)
	assert.Equal(t, constants.TaskStatusTodo, status)
	assert.True(t, changed)
}

func TestDeriveTaskStatus_NoWriteWhenUnchanged(t *testing.T) {
	assignments := []AssignmentProgress{
		{Status: constants.AssignmentStatusAccepted, Progress: 10},
	}
	status, changed := DeriveTaskStatus(constants.TaskStatusInProgress, assignments)
	assert.Equal(t, constants.TaskStatusInProgress, status)
	assert.False(t, changed)
}

func TestCanTransitEventStatus(t *testing.T) {
	assert.True(t, CanTransitEventStatus(constants.EventStatusPending, constants.EventStatusApproved))
	assert.True(t, CanTransitEventStatus(constants.EventStatusPending, constants.EventStatusRejected))
	assert.True(t, CanTransitEventStatus(constants.EventStatusApproved, constants.EventStatusCompleted))

	assert.False(t, CanTransitEventStatus(constants.EventStatusApproved, constants.EventStatusPending))
	assert.False(t, CanTransitEventStatus(constants.EventStatusRejected, constants.EventStatusApproved))
	assert.False(t, CanTransitEventStatus(constants.EventStatusCompleted, constants.EventStatusApproved))
	assert.False(t, CanTransitEventStatus(constants.EventStatusPending, constants.EventStatusCompleted))
}

func TestEditDeadline(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, &start, EditDeadline(&start, &end))
	assert.Equal(t, &end, EditDeadline(nil, &end))
	assert.Nil(t, EditDeadline(nil, nil))
}
