package progression

// Rank is the coarse D-S letter grade derived from level. It gates cosmetic
// rewards only (titles, profile borders) and is never stored as the source
// of truth - always recompute from level.
type Rank string

const (
	RankD Rank = "D"
	RankC Rank = "C"
	RankB Rank = "B"
	RankA Rank = "A"
	RankS Rank = "S"
)

// RankForLevel maps a level to its rank band:
// D 1-25, C 26-45, B 46-65, A 66-85, S 86-100.
// Out-of-range levels are clamped into [1,100], so an invalid or missing
// level resolves to rank D.
func RankForLevel(level int) Rank {
	if level < 1 {
		level = 1
	}
	if level > 100 {
		level = 100
	}
	switch {
	case level >= 86:
		return RankS
	case level >= 66:
		return RankA
	case level >= 46:
		return RankB
	case level >= 26:
		return RankC
	default:
		return RankD
	}
}

// RankAtLeast reports whether rank r is at or above the given minimum rank.
func RankAtLeast(r, min Rank) bool {
	return rankOrder(r) >= rankOrder(min)
}

func rankOrder(r Rank) int {
	switch r {
	case RankS:
		return 4
	case RankA:
		return 3
	case RankB:
		return 2
	case RankC:
		return 1
	default:
		return 0
	}
}
