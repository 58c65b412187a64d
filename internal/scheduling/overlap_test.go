package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func TestOverlaps_Boundary(t *testing.T) {
	// Смежные интервалы не пересекаются: [10:00, 11:00) и [11:00, 12:00).
	assert.False(t, Overlaps(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))

	// [10:00, 11:00) и [10:59, 11:01) пересекаются.
	assert.True(t, Overlaps(at(10, 0), at(11, 0), at(10, 59), at(11, 1)))
}

func TestOverlaps_Symmetry(t *testing.T) {
	cases := [][4]time.Time{
		{at(10, 0), at(11, 0), at(11, 0), at(12, 0)},
		{at(10, 0), at(11, 0), at(10, 59), at(11, 1)},
		{at(9, 0), at(17, 0), at(12, 0), at(12, 30)},
		{at(9, 0), at(9, 0), at(8, 0), at(10, 0)},
	}
	for _, c := range cases {
		assert.Equal(t,
			Overlaps(c[0], c[1], c[2], c[3]),
			Overlaps(c[2], c[3], c[0], c[1]),
		)
	}
}

func TestOverlaps_Instant(t *testing.T) {
	// Вырожденный интервал — момент времени: попадание по правилу start <= t < end.
	assert.True(t, Overlaps(at(10, 0), at(10, 0), at(10, 0), at(11, 0)))
	assert.True(t, Overlaps(at(10, 30), at(10, 30), at(10, 0), at(11, 0)))
	assert.False(t, Overlaps(at(11, 0), at(11, 0), at(10, 0), at(11, 0)))
	assert.False(t, Overlaps(at(9, 59), at(9, 59), at(10, 0), at(11, 0)))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(at(10, 0), at(11, 0), at(10, 0)))
	assert.True(t, Contains(at(10, 0), at(11, 0), at(10, 59)))
	assert.False(t, Contains(at(10, 0), at(11, 0), at(11, 0)))
}
