package progression

import "testing"

func TestRankForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  Rank
	}{
		{0, RankD},
		{1, RankD},
		{25, RankD},
		{26, RankC},
		{45, RankC},
		{46, RankB},
		{65, RankB},
		{66, RankA},
		{85, RankA},
		{86, RankS},
		{100, RankS},
		{250, RankS}, // clamped to 100
		{-5, RankD},  // clamped to 1
	}
	for _, tt := range tests {
		if got := RankForLevel(tt.level); got != tt.want {
			t.Errorf("RankForLevel(%d) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestRankForLevelIsPure(t *testing.T) {
	for level := -10; level <= 120; level++ {
		first := RankForLevel(level)
		if second := RankForLevel(level); second != first {
			t.Fatalf("RankForLevel(%d) changed between calls: %s then %s", level, first, second)
		}
	}
}

func TestRankAtLeast(t *testing.T) {
	if !RankAtLeast(RankS, RankD) {
		t.Error("S should satisfy at-least-D")
	}
	if RankAtLeast(RankC, RankB) {
		t.Error("C should not satisfy at-least-B")
	}
	if !RankAtLeast(RankA, RankA) {
		t.Error("A should satisfy at-least-A")
	}
}
