package progression

// Challenge difficulty and intensity labels accepted by the reward policy.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyHard         = "hard"

	IntensityNormal   = "normal"
	IntensityHigh     = "high"
	IntensityVeryHigh = "very-high"
)

// RewardPolicy holds the XP award amounts for every activity type. These are
// product policy, not engine rules: the engine only cares that grantXp gets
// a positive amount. Deployments tune them via the rewards YAML file.
type RewardPolicy struct {
	QuestXP         int            `yaml:"quest_xp"`
	MealXP          int            `yaml:"meal_xp"`
	WorkoutBaseXP   int            `yaml:"workout_base_xp"`
	WorkoutPerSet   int            `yaml:"workout_per_set"`
	WorkoutMinXP    int            `yaml:"workout_min_xp"`
	DurationBaseXP  int            `yaml:"duration_base_xp"`
	ChallengeXP     map[string]int `yaml:"challenge_xp"`
	IntensityBonus  map[string]int `yaml:"intensity_bonus"`
}

// DefaultRewardPolicy returns the shipped award table.
func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		QuestXP:        50,
		MealXP:         5,
		WorkoutBaseXP:  15,
		WorkoutPerSet:  2,
		WorkoutMinXP:   5,
		DurationBaseXP: 5,
		ChallengeXP: map[string]int{
			DifficultyBeginner:     20,
			DifficultyIntermediate: 30,
			DifficultyHard:         40,
		},
		IntensityBonus: map[string]int{
			IntensityNormal:   0,
			IntensityHigh:     5,
			IntensityVeryHigh: 10,
		},
	}
}

// WorkoutXP computes the award for a logged workout. Workouts with sets or
// reps use base + 2/set + reps/2; duration-only workouts use base + minutes.
// Both variants add the intensity bonus and never pay below the minimum.
func (p RewardPolicy) WorkoutXP(sets, reps, durationMin int, intensity string) int {
	var xp int
	switch {
	case sets > 0 || reps > 0:
		xp = p.WorkoutBaseXP + sets*p.WorkoutPerSet + reps/2
	case durationMin > 0:
		xp = p.DurationBaseXP + durationMin
	default:
		xp = p.WorkoutMinXP
	}
	xp += p.intensityBonus(intensity)
	if xp < p.WorkoutMinXP {
		xp = p.WorkoutMinXP
	}
	return xp
}

// QuestXPAward returns the flat quest completion award.
func (p RewardPolicy) QuestXPAward() int {
	return p.QuestXP
}

// MealXPAward returns the flat meal logging award.
func (p RewardPolicy) MealXPAward() int {
	return p.MealXP
}

// ChallengeXPAward returns the award for a completed challenge: the
// difficulty base plus the intensity bonus. Unknown difficulties pay the
// beginner rate rather than failing; the challenge was still completed.
func (p RewardPolicy) ChallengeXPAward(difficulty, intensity string) int {
	base, ok := p.ChallengeXP[difficulty]
	if !ok {
		base = p.ChallengeXP[DifficultyBeginner]
	}
	return base + p.intensityBonus(intensity)
}

func (p RewardPolicy) intensityBonus(intensity string) int {
	if intensity == "" {
		return 0
	}
	return p.IntensityBonus[intensity]
}
