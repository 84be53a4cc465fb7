package service

import (
	"math"
	"time"

	"brainstorm/internal/model"
)

const (
	QuestionTimeLimit = 30 * time.Second
	// The timeout fires strictly after the limit so a last-second answer wins.
	timeoutGrace = time.Second

	BaseScore      = 100
	TimeBonusMax   = 50
	StreakBonusCap = 50
	streakBonusMin = 3
	streakStep     = 10
)

// Score returns the points for a correct answer given after elapsed, where
// streak already includes this answer
func Score(d model.Difficulty, elapsed time.Duration, streak int) int {
	if elapsed < 0 {
		elapsed = 0
	}
	base := int(math.Floor(BaseScore * d.Multiplier()))

	frac := 1 - elapsed.Seconds()/QuestionTimeLimit.Seconds()
	bonus := int(math.Floor(TimeBonusMax * frac))
	if bonus < 0 {
		bonus = 0
	}

	return base + bonus + StreakBonus(streak)
}

// StreakBonus is min(50, (streak-2)*10) once streak reaches 3
func StreakBonus(streak int) int {
	if streak < streakBonusMin {
		return 0
	}
	return min(StreakBonusCap, (streak-2)*streakStep)
}
