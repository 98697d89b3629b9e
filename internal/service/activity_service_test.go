package service

import (
	"errors"
	"testing"
	"time"

	"arisefit/internal/models"
	"arisefit/internal/progression"
	"arisefit/internal/repository"
)

func newTestActivity(t *testing.T) (*ActivityService, *ProgressionService, *repository.UserRepository, *models.User) {
	t.Helper()

	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	attrs := repository.NewAttributeRepository(db)
	activity := repository.NewActivityRepository(db)
	unlocks := repository.NewUnlockRepository(db)

	prog := NewProgressionService(db, users, attrs, activity, unlocks, nil)
	svc := NewActivityService(users, activity, prog, progression.DefaultRewardPolicy())

	user, err := users.CreateUser("testhunter", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return svc, prog, users, user
}

func TestLogWorkoutGrantsXP(t *testing.T) {
	svc, _, users, user := newTestActivity(t)

	workout, grant, err := svc.LogWorkout(user.ID, "Push Day", 3, 10, 0, progression.IntensityHigh, false)
	if err != nil {
		t.Fatalf("LogWorkout failed: %v", err)
	}

	// 15 base + 3*2 per set + 10/2 reps + 5 intensity = 31.
	if workout.XPGained != 31 {
		t.Errorf("xpGained = %d, want 31", workout.XPGained)
	}
	if grant.XPGained != 31 {
		t.Errorf("grant xp = %d, want 31", grant.XPGained)
	}

	stored, err := users.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.XP != 31 {
		t.Errorf("stored xp = %d, want 31", stored.XP)
	}
	if stored.Streak != 1 {
		t.Errorf("streak = %d, want 1", stored.Streak)
	}
}

func TestLogWorkoutValidation(t *testing.T) {
	svc, _, _, user := newTestActivity(t)

	if _, _, err := svc.LogWorkout(user.ID, "", 3, 10, 0, "", false); !errors.Is(err, progression.ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}
	if _, _, err := svc.LogWorkout(user.ID, "Leg Day", -1, 0, 0, "", false); !errors.Is(err, progression.ErrValidation) {
		t.Errorf("negative sets error = %v, want ErrValidation", err)
	}
}

func TestStreakProgression(t *testing.T) {
	svc, _, users, user := newTestActivity(t)

	day1 := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC) // Monday
	svc.now = func() time.Time { return day1 }

	if _, _, err := svc.LogMeal(user.ID, "Breakfast", 400); err != nil {
		t.Fatalf("LogMeal failed: %v", err)
	}
	stored, _ := users.GetUserByID(user.ID)
	if stored.Streak != 1 {
		t.Fatalf("streak after day 1 = %d, want 1", stored.Streak)
	}

	// Second activity the same day leaves the streak alone.
	if _, _, err := svc.LogMeal(user.ID, "Lunch", 600); err != nil {
		t.Fatalf("LogMeal failed: %v", err)
	}
	stored, _ = users.GetUserByID(user.ID)
	if stored.Streak != 1 {
		t.Errorf("streak after same-day repeat = %d, want 1", stored.Streak)
	}

	// Next-day activity extends the streak.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	if _, _, err := svc.LogMeal(user.ID, "Breakfast", 400); err != nil {
		t.Fatalf("LogMeal failed: %v", err)
	}
	stored, _ = users.GetUserByID(user.ID)
	if stored.Streak != 2 {
		t.Errorf("streak after day 2 = %d, want 2", stored.Streak)
	}

	// A gap resets the streak to 1.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 5) }
	if _, _, err := svc.LogMeal(user.ID, "Breakfast", 400); err != nil {
		t.Fatalf("LogMeal failed: %v", err)
	}
	stored, _ = users.GetUserByID(user.ID)
	if stored.Streak != 1 {
		t.Errorf("streak after gap = %d, want 1", stored.Streak)
	}
}

func TestTodayQuestRotation(t *testing.T) {
	svc, _, _, user := newTestActivity(t)

	tuesday := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return tuesday }

	quest, restDay, err := svc.GetTodayQuest(user.ID)
	if err != nil {
		t.Fatalf("GetTodayQuest failed: %v", err)
	}
	if restDay {
		t.Fatal("Tuesday reported as rest day")
	}
	if quest == nil || quest.QuestDate != "2026-01-06" {
		t.Fatalf("quest = %+v, want quest dated 2026-01-06", quest)
	}

	// Asking again returns the same quest, not a new draw.
	again, _, err := svc.GetTodayQuest(user.ID)
	if err != nil {
		t.Fatalf("second GetTodayQuest failed: %v", err)
	}
	if again.ID != quest.ID {
		t.Errorf("second fetch returned quest %d, want %d", again.ID, quest.ID)
	}
}

func TestSaturdayIsRestDay(t *testing.T) {
	svc, _, _, user := newTestActivity(t)

	saturday := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return saturday }

	quest, restDay, err := svc.GetTodayQuest(user.ID)
	if err != nil {
		t.Fatalf("GetTodayQuest failed: %v", err)
	}
	if !restDay {
		t.Error("Saturday not reported as rest day")
	}
	if quest != nil {
		t.Errorf("rest day returned a quest: %+v", quest)
	}
}

func TestCompleteQuestPaysOnce(t *testing.T) {
	svc, _, users, user := newTestActivity(t)

	tuesday := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return tuesday }

	quest, _, err := svc.GetTodayQuest(user.ID)
	if err != nil {
		t.Fatalf("GetTodayQuest failed: %v", err)
	}

	grant, err := svc.CompleteQuest(user.ID, quest.ID)
	if err != nil {
		t.Fatalf("CompleteQuest failed: %v", err)
	}
	if grant.XPGained != 50 {
		t.Errorf("quest grant = %d, want 50", grant.XPGained)
	}

	if _, err := svc.CompleteQuest(user.ID, quest.ID); !errors.Is(err, progression.ErrValidation) {
		t.Errorf("double completion error = %v, want ErrValidation", err)
	}

	stored, _ := users.GetUserByID(user.ID)
	if stored.XP != 50 {
		t.Errorf("stored xp = %d, want 50 (no double payout)", stored.XP)
	}
}

func TestCompleteChallenge(t *testing.T) {
	svc, _, _, user := newTestActivity(t)

	completion, grant, err := svc.CompleteChallenge(user.ID, "upper-body", progression.DifficultyHard, progression.IntensityVeryHigh)
	if err != nil {
		t.Fatalf("CompleteChallenge failed: %v", err)
	}
	if completion.XPGained != 50 {
		t.Errorf("challenge xp = %d, want 50 (40 hard + 10 very-high)", completion.XPGained)
	}
	if grant.XPGained != 50 {
		t.Errorf("grant xp = %d, want 50", grant.XPGained)
	}

	// Unknown difficulty falls back to the beginner rate.
	completion, _, err = svc.CompleteChallenge(user.ID, "mystery", "nightmare", "")
	if err != nil {
		t.Fatalf("CompleteChallenge failed: %v", err)
	}
	if completion.XPGained != 20 {
		t.Errorf("fallback xp = %d, want 20", completion.XPGained)
	}
}
