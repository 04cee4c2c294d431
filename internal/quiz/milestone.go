package quiz

// streakMilestones are the fixed celebration points; beyond the last one
// every multiple of five counts.
var streakMilestones = []int{5, 10, 15, 20}

// NextStreakMilestone returns the next milestone above the current streak.
func NextStreakMilestone(current int) int {
	for _, t := range streakMilestones {
		if t > current {
			return t
		}
	}
	return ((current / 5) + 1) * 5
}

// IsStreakMilestone reports whether streak lands exactly on a milestone.
func IsStreakMilestone(streak int) bool {
	return streak > 0 && NextStreakMilestone(streak-1) == streak
}
