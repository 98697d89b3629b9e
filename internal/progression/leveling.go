package progression

// AttributeHardCap is the flat ceiling for every attribute regardless of level.
const AttributeHardCap = 100

// XPRequiredForLevel returns the XP needed to clear the given level.
// The curve is linear: level 1 needs 100, level 2 needs 200, and so on.
func XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 * level
}

// PointsForLevel returns the stat points awarded for reaching the given level.
func PointsForLevel(level int) int {
	switch {
	case level >= 1 && level <= 20:
		return 2
	case level >= 21 && level <= 50:
		return 4
	case level >= 51 && level <= 100:
		return 6
	default:
		return 0
	}
}

// LevelResult is the outcome of applying an XP delta to a progression record.
type LevelResult struct {
	XP            int
	Level         int
	LeveledUp     bool
	LevelsGained  int
	PointsAwarded int
}

// ApplyXP adds delta to the XP remainder and processes every level-up it
// triggers. XP is stored as the remainder toward the current level, not as a
// lifetime total: each pass through the loop subtracts the current level's
// threshold, bumps the level and accumulates the point award for the level
// reached. The resulting remainder is always below the new level's threshold.
//
// A non-positive delta is a no-op; callers are expected to reject such
// amounts before invoking the calculator.
func ApplyXP(currentXP, currentLevel, delta int) LevelResult {
	if currentXP < 0 {
		currentXP = 0
	}
	if currentLevel < 1 {
		currentLevel = 1
	}
	res := LevelResult{XP: currentXP, Level: currentLevel}
	if delta <= 0 {
		return res
	}

	res.XP += delta
	for res.XP >= XPRequiredForLevel(res.Level) {
		res.XP -= XPRequiredForLevel(res.Level)
		res.Level++
		res.LevelsGained++
		res.PointsAwarded += PointsForLevel(res.Level)
	}
	res.LeveledUp = res.LevelsGained > 0
	return res
}

// Milestone reports the decade boundary (10, 20, 30, ...) newly crossed when
// an attribute moves from oldValue to newValue, or 0 if none was crossed.
func Milestone(oldValue, newValue int) int {
	oldFloor := (oldValue / 10) * 10
	newFloor := (newValue / 10) * 10
	if newFloor > oldFloor {
		return newFloor
	}
	return 0
}
