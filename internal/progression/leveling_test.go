package progression

import "testing"

func TestApplyXP(t *testing.T) {
	tests := []struct {
		name          string
		xp            int
		level         int
		delta         int
		wantXP        int
		wantLevel     int
		wantLeveledUp bool
		wantPoints    int
	}{
		{
			name: "no level up", xp: 0, level: 1, delta: 50,
			wantXP: 50, wantLevel: 1, wantLeveledUp: false, wantPoints: 0,
		},
		{
			name: "single level up with carry over", xp: 0, level: 1, delta: 250,
			// level 1 needs 100 -> consume 100, remainder 150; level 2 needs 200 -> stop
			wantXP: 150, wantLevel: 2, wantLeveledUp: true, wantPoints: 2,
		},
		{
			name: "exact threshold levels with zero remainder", xp: 0, level: 1, delta: 100,
			wantXP: 0, wantLevel: 2, wantLeveledUp: true, wantPoints: 2,
		},
		{
			name: "multi level jump accumulates per level awards", xp: 0, level: 1, delta: 600,
			// 1->2 costs 100 (+2), 2->3 costs 200 (+2), 3->4 costs 300 (+2), remainder 0
			wantXP: 0, wantLevel: 4, wantLeveledUp: true, wantPoints: 6,
		},
		{
			name: "band boundary 19 to 20 awards band one rate", xp: 1899, level: 19, delta: 1,
			wantXP: 0, wantLevel: 20, wantLeveledUp: true, wantPoints: 2,
		},
		{
			name: "band boundary 20 to 21 awards band two rate", xp: 1999, level: 20, delta: 1,
			wantXP: 0, wantLevel: 21, wantLeveledUp: true, wantPoints: 4,
		},
		{
			name: "crossing band pays sum of per level awards", xp: 0, level: 19, delta: 1900 + 2000 + 50,
			// reaches level 20 (+2) then level 21 (+4), 50 remainder
			wantXP: 50, wantLevel: 21, wantLeveledUp: true, wantPoints: 6,
		},
		{
			name: "zero delta is a no-op", xp: 42, level: 3, delta: 0,
			wantXP: 42, wantLevel: 3, wantLeveledUp: false, wantPoints: 0,
		},
		{
			name: "negative delta is a no-op", xp: 42, level: 3, delta: -10,
			wantXP: 42, wantLevel: 3, wantLeveledUp: false, wantPoints: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyXP(tt.xp, tt.level, tt.delta)
			if got.XP != tt.wantXP {
				t.Errorf("XP = %d, want %d", got.XP, tt.wantXP)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", got.Level, tt.wantLevel)
			}
			if got.LeveledUp != tt.wantLeveledUp {
				t.Errorf("LeveledUp = %v, want %v", got.LeveledUp, tt.wantLeveledUp)
			}
			if got.PointsAwarded != tt.wantPoints {
				t.Errorf("PointsAwarded = %d, want %d", got.PointsAwarded, tt.wantPoints)
			}
		})
	}
}

func TestApplyXPRemainderInvariant(t *testing.T) {
	// Level never decreases and the remainder is always below the new
	// level's threshold, across a sweep of starting states and deltas.
	for level := 1; level <= 60; level += 7 {
		for xp := 0; xp < XPRequiredForLevel(level); xp += 37 {
			for _, delta := range []int{1, 25, 99, 100, 1000, 12345} {
				got := ApplyXP(xp, level, delta)
				if got.Level < level {
					t.Fatalf("ApplyXP(%d,%d,%d) decreased level to %d", xp, level, delta, got.Level)
				}
				if got.XP >= XPRequiredForLevel(got.Level) {
					t.Fatalf("ApplyXP(%d,%d,%d) left remainder %d >= threshold %d",
						xp, level, delta, got.XP, XPRequiredForLevel(got.Level))
				}
			}
		}
	}
}

func TestPointsForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 2}, {20, 2}, {21, 4}, {50, 4}, {51, 6}, {100, 6}, {101, 0}, {0, 0}, {-3, 0},
	}
	for _, tt := range tests {
		if got := PointsForLevel(tt.level); got != tt.want {
			t.Errorf("PointsForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestMilestone(t *testing.T) {
	tests := []struct {
		old, new, want int
	}{
		{19, 20, 20},
		{9, 10, 10},
		{11, 19, 0},
		{28, 41, 40},
		{10, 10, 0},
		{99, 100, 100},
	}
	for _, tt := range tests {
		if got := Milestone(tt.old, tt.new); got != tt.want {
			t.Errorf("Milestone(%d, %d) = %d, want %d", tt.old, tt.new, got, tt.want)
		}
	}
}
