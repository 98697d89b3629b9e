package progression

// StatsSnapshot is the read-only view of a user's counters that unlock
// evaluation runs against. Evaluation is pure: same snapshot in, same
// unlock set out.
type StatsSnapshot struct {
	Level           int
	XP              int
	Streak          int
	Rank            Rank
	QuestsCompleted int
	Strength        int
	Agility         int
	Stamina         int
	Endurance       int
	Intelligence    int
}

// Badge describes one unlockable badge. Unlocked is a pure predicate over a
// snapshot; it must not capture mutable state.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Category    string `json:"category"`

	Unlocked func(s StatsSnapshot) bool `json:"-"`
}

// Title describes one unlockable display title. Titles are listed in
// priority order: the first unlocked entry is the one shown.
type Title struct {
	Name        string
	Description string
	Unlocked    func(s StatsSnapshot) bool
}

// DefaultTitle is held by every user until something better unlocks.
const DefaultTitle = "Newly Awakened"

// Badges is the full badge catalog in display order.
var Badges = []Badge{
	{
		ID: "first_steps", Name: "First Steps", Icon: "👣",
		Description: "Complete your first quest", Category: "Quest Milestone",
		Unlocked: func(s StatsSnapshot) bool { return s.QuestsCompleted >= 1 },
	},
	{
		ID: "quest_master", Name: "Quest Master", Icon: "⚔️",
		Description: "Complete 10 quests", Category: "Quest Milestone",
		Unlocked: func(s StatsSnapshot) bool { return s.QuestsCompleted >= 10 },
	},
	{
		ID: "legend_making", Name: "Legend in Making", Icon: "⭐",
		Description: "Complete 50 quests", Category: "Quest Milestone",
		Unlocked: func(s StatsSnapshot) bool { return s.QuestsCompleted >= 50 },
	},
	{
		ID: "rising_star", Name: "Rising Star", Icon: "✨",
		Description: "Reach level 5", Category: "Level Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Level >= 5 },
	},
	{
		ID: "pinnacle", Name: "Pinnacle Warrior", Icon: "👑",
		Description: "Reach level 20", Category: "Level Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Level >= 20 },
	},
	{
		ID: "rank_d", Name: "Rank D", Icon: "🔰",
		Description: "Achieved Rank D", Category: "Rank Progression",
		Unlocked: func(s StatsSnapshot) bool { return RankAtLeast(s.Rank, RankD) },
	},
	{
		ID: "rank_c", Name: "Rank C", Icon: "🥉",
		Description: "Achieved Rank C", Category: "Rank Progression",
		Unlocked: func(s StatsSnapshot) bool { return RankAtLeast(s.Rank, RankC) },
	},
	{
		ID: "rank_b", Name: "Rank B", Icon: "🥈",
		Description: "Achieved Rank B", Category: "Rank Progression",
		Unlocked: func(s StatsSnapshot) bool { return RankAtLeast(s.Rank, RankB) },
	},
	{
		ID: "rank_a", Name: "Rank A", Icon: "🥇",
		Description: "Achieved Rank A", Category: "Rank Progression",
		Unlocked: func(s StatsSnapshot) bool { return RankAtLeast(s.Rank, RankA) },
	},
	{
		ID: "rank_s", Name: "Rank S", Icon: "💎",
		Description: "Achieved Rank S - Legendary status", Category: "Rank Progression",
		Unlocked: func(s StatsSnapshot) bool { return s.Rank == RankS },
	},
	{
		ID: "week_warrior", Name: "Week Warrior", Icon: "🔥",
		Description: "Maintain a 7-day streak", Category: "Streak Reward",
		Unlocked: func(s StatsSnapshot) bool { return s.Streak >= 7 },
	},
	{
		ID: "month_marathon", Name: "Month Marathon", Icon: "🌟",
		Description: "Maintain a 30-day streak", Category: "Streak Reward",
		Unlocked: func(s StatsSnapshot) bool { return s.Streak >= 30 },
	},
	{
		ID: "strong_soul", Name: "Strong Soul", Icon: "💪",
		Description: "Strength stat reaches 20", Category: "Stat Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Strength >= 20 },
	},
	{
		ID: "swift_thinker", Name: "Swift Thinker", Icon: "⚡",
		Description: "Agility stat reaches 20", Category: "Stat Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Agility >= 20 },
	},
	{
		ID: "unstoppable", Name: "Unstoppable", Icon: "🚀",
		Description: "Stamina stat reaches 20", Category: "Stat Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Stamina >= 20 },
	},
	{
		ID: "ironclad", Name: "Ironclad", Icon: "🛡️",
		Description: "Endurance stat reaches 20", Category: "Stat Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Endurance >= 20 },
	},
	{
		ID: "sage", Name: "Sage", Icon: "🧠",
		Description: "Intelligence stat reaches 20", Category: "Stat Achievement",
		Unlocked: func(s StatsSnapshot) bool { return s.Intelligence >= 20 },
	},
}

// Titles is the title catalog in priority order: highest tier first, the
// default last. EvaluateTitle returns the first unlocked entry.
var Titles = []Title{
	{
		Name: "Uncrowned King", Description: "Achieved Rank S",
		Unlocked: func(s StatsSnapshot) bool { return s.Rank == RankS },
	},
	{
		Name: "Monarch Candidate", Description: "Achieved Rank A",
		Unlocked: func(s StatsSnapshot) bool { return s.Rank == RankA },
	},
	{
		Name: "Aspiring Champion", Description: "Reached level 10",
		Unlocked: func(s StatsSnapshot) bool { return s.Level >= 10 },
	},
	{
		Name: "Consistency Legend", Description: "Maintained a 7-day streak",
		Unlocked: func(s StatsSnapshot) bool { return s.Streak >= 7 },
	},
	{
		Name: "Dungeon Explorer", Description: "Completed 10 quests",
		Unlocked: func(s StatsSnapshot) bool { return s.QuestsCompleted >= 10 },
	},
	{
		Name: "Iron Warrior", Description: "Strength stat reached 20",
		Unlocked: func(s StatsSnapshot) bool { return s.Strength >= 20 },
	},
	{
		Name: "Speedster", Description: "Agility stat reached 20",
		Unlocked: func(s StatsSnapshot) bool { return s.Agility >= 20 },
	},
	{
		Name: "Endurance Master", Description: "Endurance stat reached 20",
		Unlocked: func(s StatsSnapshot) bool { return s.Endurance >= 20 },
	},
	{
		Name: "Intellect Scholar", Description: "Intelligence stat reached 20",
		Unlocked: func(s StatsSnapshot) bool { return s.Intelligence >= 20 },
	},
	{
		Name: DefaultTitle, Description: "Welcome to your journey",
		Unlocked: func(s StatsSnapshot) bool { return true },
	},
}

// EvaluateBadges returns the IDs of every badge the snapshot currently
// qualifies for. It always re-evaluates the full catalog; callers diff the
// result against previously persisted unlocks to find newly earned badges.
func EvaluateBadges(s StatsSnapshot) []string {
	var ids []string
	for _, b := range Badges {
		if b.Unlocked(s) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// EvaluateTitle returns the highest-priority title the snapshot qualifies
// for. The catalog ends with an always-unlocked default, so this never
// returns an empty string.
func EvaluateTitle(s StatsSnapshot) string {
	for _, t := range Titles {
		if t.Unlocked(s) {
			return t.Name
		}
	}
	return DefaultTitle
}

// BadgeByID looks up a badge definition by its ID.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
