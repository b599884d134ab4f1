package services

// ExpPerLevel is the width of every level band.
const ExpPerLevel = 1000

// CalculateLevel maps cumulative experience to a level, starting at 1.
// Negative experience is treated as zero.
func CalculateLevel(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExpPerLevel + 1
}

// ExpForNextLevel is the experience total at which level+1 begins.
func ExpForNextLevel(level int) int {
	return level * ExpPerLevel
}

// LevelProgress is the percentage (0..100) of the current level band already earned.
func LevelProgress(experience, level int) int {
	start := (level - 1) * ExpPerLevel
	width := ExpForNextLevel(level) - start
	if width <= 0 {
		return 100
	}
	progress := (experience - start) * 100 / width
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	}
	return progress
}
