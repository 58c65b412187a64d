// Файл: internal/scheduling/progress.go
package scheduling

import (
	"math"

	"github.com/wwwwwwmw/DA-BE/pkg/constants"
)

// AssignmentProgress — срез назначения для агрегации прогресса.
type AssignmentProgress struct {
	Status   string
	Progress int
}

// TaskProgress — срез задачи вместе с её назначениями.
type TaskProgress struct {
	ID          uint64
	Weight      *int
	Status      string
	Assignments []AssignmentProgress
}

// TaskCompletion возвращает долю выполнения задачи в диапазоне [0, 1].
//
// Отклонённые назначения не учитываются. Если активных назначений нет,
// задача со статусом completed считается выполненной целиком, иначе — на 0.
func TaskCompletion(t TaskProgress) float64 {
	sum := 0
	n := 0
	for _, a := range t.Assignments {
		if a.Status == constants.AssignmentStatusRejected {
			continue
		}
		sum += a.Progress
		n++
	}
	if n == 0 {
		if t.Status == constants.TaskStatusCompleted {
			return 1
		}
		return 0
	}
	return float64(sum) / float64(n) / 100
}

// ProjectProgress возвращает процент выполнения проекта 0..100.
//
// Свёртка — средневзвешенная доля выполнения задач по их фактическим
// весам (см. EffectiveWeights), нормированная на сумму весов,
// с округлением к ближайшему целому (0.5 — вверх).
func ProjectProgress(tasks []TaskProgress) int {
	if len(tasks) == 0 {
		return 0
	}

	weighted := make([]WeightedTask, 0, len(tasks))
	for _, t := range tasks {
		weighted = append(weighted, WeightedTask{ID: t.ID, Weight: t.Weight})
	}
	weights := EffectiveWeights(weighted)

	usedWeight := 0
	weightedSum := 0.0
	for _, t := range tasks {
		w := weights[t.ID]
		if w <= 0 {
			continue
		}
		usedWeight += w
		weightedSum += float64(w) * TaskCompletion(t)
	}
	if usedWeight == 0 {
		return 0
	}
	return int(math.Round(weightedSum / float64(usedWeight) * 100))
}
