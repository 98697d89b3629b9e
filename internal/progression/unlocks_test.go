package progression

import (
	"reflect"
	"testing"
)

func TestEvaluateBadges(t *testing.T) {
	fresh := StatsSnapshot{Level: 1, Rank: RankD}
	got := EvaluateBadges(fresh)
	// A brand new rank-D user already holds the rank D badge and nothing else.
	if !reflect.DeepEqual(got, []string{"rank_d"}) {
		t.Errorf("fresh user badges = %v, want [rank_d]", got)
	}

	veteran := StatsSnapshot{
		Level: 90, Rank: RankS, Streak: 31, QuestsCompleted: 55,
		Strength: 40, Agility: 25, Stamina: 20, Endurance: 19, Intelligence: 10,
	}
	ids := EvaluateBadges(veteran)
	want := map[string]bool{
		"first_steps": true, "quest_master": true, "legend_making": true,
		"rising_star": true, "pinnacle": true,
		"rank_d": true, "rank_c": true, "rank_b": true, "rank_a": true, "rank_s": true,
		"week_warrior": true, "month_marathon": true,
		"strong_soul": true, "swift_thinker": true, "unstoppable": true,
	}
	if len(ids) != len(want) {
		t.Fatalf("veteran badges = %v (%d), want %d", ids, len(ids), len(want))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected badge %q", id)
		}
	}
	// Endurance 19 and intelligence 10 stay below the stat threshold.
	for _, id := range ids {
		if id == "ironclad" || id == "sage" {
			t.Errorf("badge %q should not be unlocked", id)
		}
	}
}

func TestEvaluateBadgesIdempotent(t *testing.T) {
	s := StatsSnapshot{Level: 30, Rank: RankC, Streak: 8, QuestsCompleted: 12, Strength: 21}
	first := EvaluateBadges(s)
	second := EvaluateBadges(s)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("EvaluateBadges not idempotent: %v vs %v", first, second)
	}
	if EvaluateTitle(s) != EvaluateTitle(s) {
		t.Error("EvaluateTitle not idempotent")
	}
}

func TestEvaluateTitlePriority(t *testing.T) {
	tests := []struct {
		name string
		s    StatsSnapshot
		want string
	}{
		{
			name: "default for a fresh user",
			s:    StatsSnapshot{Level: 1, Rank: RankD},
			want: "Newly Awakened",
		},
		{
			name: "S rank outranks quest count",
			s:    StatsSnapshot{Level: 90, Rank: RankS, QuestsCompleted: 100},
			want: "Uncrowned King",
		},
		{
			name: "A rank outranks level ten",
			s:    StatsSnapshot{Level: 70, Rank: RankA},
			want: "Monarch Candidate",
		},
		{
			name: "level ten outranks streak",
			s:    StatsSnapshot{Level: 12, Rank: RankD, Streak: 10},
			want: "Aspiring Champion",
		},
		{
			name: "streak outranks quest count",
			s:    StatsSnapshot{Level: 5, Rank: RankD, Streak: 7, QuestsCompleted: 15},
			want: "Consistency Legend",
		},
		{
			name: "quest count outranks attribute titles",
			s:    StatsSnapshot{Level: 5, Rank: RankD, QuestsCompleted: 10, Strength: 25},
			want: "Dungeon Explorer",
		},
		{
			name: "attribute title when nothing above applies",
			s:    StatsSnapshot{Level: 5, Rank: RankD, Agility: 22},
			want: "Speedster",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateTitle(tt.s); got != tt.want {
				t.Errorf("EvaluateTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBadgeByID(t *testing.T) {
	b, ok := BadgeByID("week_warrior")
	if !ok || b.Name != "Week Warrior" {
		t.Errorf("BadgeByID(week_warrior) = %+v, %v", b, ok)
	}
	if _, ok := BadgeByID("no_such_badge"); ok {
		t.Error("BadgeByID should miss on unknown id")
	}
}
