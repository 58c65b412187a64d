// Файл: internal/scheduling/overlap.go
// Пакет scheduling содержит чистые алгоритмы планирования:
// пересечение интервалов, распределение весов, агрегация прогресса
// и вывод статусов. Никаких обращений к БД — только вычисления.
package scheduling

import "time"

// Contains сообщает, попадает ли момент t в полузакрытый интервал [start, end).
func Contains(start, end, t time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Overlaps сообщает, пересекаются ли два полузакрытых интервала [aStart, aEnd)
// и [bStart, bEnd). Совпадение границ (aEnd == bStart) пересечением не считается.
// Вырожденный интервал (start == end) трактуется как момент времени.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aStart.Equal(aEnd) {
		return Contains(bStart, bEnd, aStart)
	}
	if bStart.Equal(bEnd) {
		return Contains(aStart, aEnd, bStart)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
