package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	cases := map[int]int{
		-50:  1,
		0:    1,
		999:  1,
		1000: 2,
		1999: 2,
		2500: 3,
		9000: 10,
	}
	for experience, want := range cases {
		assert.Equal(t, want, CalculateLevel(experience), "experience %d", experience)
	}
}

func TestCalculateLevelIsMonotonic(t *testing.T) {
	prev := CalculateLevel(-10)
	for experience := -10; experience <= 12000; experience += 7 {
		level := CalculateLevel(experience)
		assert.GreaterOrEqual(t, level, prev)
		assert.GreaterOrEqual(t, level, 1)
		prev = level
	}
}

func TestExpForNextLevel(t *testing.T) {
	assert.Equal(t, 1000, ExpForNextLevel(1))
	assert.Equal(t, 3000, ExpForNextLevel(3))
}

func TestLevelProgress(t *testing.T) {
	assert.Equal(t, 0, LevelProgress(0, 1))
	assert.Equal(t, 20, LevelProgress(200, 1))
	assert.Equal(t, 50, LevelProgress(2500, 3))
	// stale level values are clamped rather than overflowing
	assert.Equal(t, 100, LevelProgress(5000, 1))
	assert.Equal(t, 0, LevelProgress(100, 4))
}
