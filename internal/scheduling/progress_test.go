package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wwwwwwmw/DA-BE/pkg/constants"
	"github.com/wwwwwwmw/DA-BE/pkg/utils"
)

func TestProjectProgress_WeightedRollup(t *testing.T) {
	// Задача A (вес 70) выполнена наполовину, задача B (авто 30) завершена
	// без назначений: 70*0.5 + 30*1 = 65.
	tasks := []TaskProgress{
		{
			ID:     1,
			Weight: utils.IntPtr(70),
			Status: constants.TaskStatusInProgress,
			Assignments: []AssignmentProgress{
				{Status: constants.AssignmentStatusAccepted, Progress: 50},
			},
		},
		{
			ID:     2,
			Status: constants.TaskStatusCompleted,
		},
	}
	assert.Equal(t, 65, ProjectProgress(tasks))
}

func TestProjectProgress_RejectedExcluded(t *testing.T) {
	tasks := []TaskProgress{
		{
			ID:     1,
			Weight: utils.IntPtr(100),
			Assignments: []AssignmentProgress{
				{Status: constants.AssignmentStatusAccepted, Progress: 80},
				{Status: constants.AssignmentStatusRejected, Progress: 0},
			},
		},
	}
	// Отклонённое назначение не тянет среднее вниз: 80, а не 40.
	assert.Equal(t, 80, ProjectProgress(tasks))
}

func TestProjectProgress_NoTasks(t *testing.T) {
	assert.Equal(t, 0, ProjectProgress(nil))
}

func TestProjectProgress_OnlyZeroWeights(t *testing.T) {
	tasks := []TaskProgress{
		{ID: 1, Weight: utils.IntPtr(0), Status: constants.TaskStatusCompleted},
	}
	assert.Equal(t, 0, ProjectProgress(tasks))
}

func TestProjectProgress_RoundsHalfUp(t *testing.T) {
	// 50*0.25 + 50*0.0 = 12.5 из 100 -> 13.
	tasks := []TaskProgress{
		{
			ID:     1,
			Weight: utils.IntPtr(50),
			Assignments: []AssignmentProgress{
				{Status: constants.AssignmentStatusAccepted, Progress: 25},
			},
		},
		{
			ID:     2,
			Weight: utils.IntPtr(50),
			Status: constants.TaskStatusTodo,
			Assignments: []AssignmentProgress{
				{Status: constants.AssignmentStatusAccepted, Progress: 0},
			},
		},
	}
	assert.Equal(t, 13, ProjectProgress(tasks))
}

func TestTaskCompletion_NoActiveAssignments(t *testing.T) {
	completed := TaskProgress{ID: 1, Status: constants.TaskStatusCompleted}
	assert.Equal(t, 1.0, TaskCompletion(completed))

	pending := TaskProgress{ID: 2, Status: constants.TaskStatusTodo}
	assert.Equal(t, 0.0, TaskCompletion(pending))
}

func TestTaskCompletion_AveragesActive(t *testing.T) {
	task := TaskProgress{
		ID: 1,
		Assignments: []AssignmentProgress{
			{Status: constants.AssignmentStatusAccepted, Progress: 100},
			{Status: constants.AssignmentStatusAccepted, Progress: 50},
		},
	}
	assert.InDelta(t, 0.75, TaskCompletion(task), 1e-9)
}
