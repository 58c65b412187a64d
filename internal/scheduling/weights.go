// Файл: internal/scheduling/weights.go
package scheduling

// WeightedTask — минимальный срез задачи для расчёта весов.
// Weight == nil означает, что вес задаче назначается автоматически.
type WeightedTask struct {
	ID     uint64
	Weight *int
}

// EffectiveWeights возвращает фактический вес каждой задачи проекта.
//
// Явные веса берутся как есть. Остаток до 100 делится поровну между
// задачами без веса: каждая получает floor(остаток/n), а первые
// (остаток mod n) автозадач во входном порядке — на единицу больше.
// Репозиторий отдаёт задачи проекта по возрастанию ID, так что
// распределение стабильно между вызовами. Если явные веса уже
// покрывают 100 и больше, автозадачи получают 0.
func EffectiveWeights(tasks []WeightedTask) map[uint64]int {
	weights := make(map[uint64]int, len(tasks))

	var auto []uint64
	used := 0
	for _, t := range tasks {
		if t.Weight != nil {
			weights[t.ID] = *t.Weight
			used += *t.Weight
			continue
		}
		auto = append(auto, t.ID)
	}

	if len(auto) == 0 {
		return weights
	}

	remaining := 100 - used
	if remaining < 0 {
		remaining = 0
	}

	base := remaining / len(auto)
	extra := remaining % len(auto)
	for i, id := range auto {
		w := base
		if i < extra {
			w++
		}
		weights[id] = w
	}
	return weights
}
