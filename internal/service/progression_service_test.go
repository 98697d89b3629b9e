package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"arisefit/internal/database"
	"arisefit/internal/models"
	"arisefit/internal/progression"
	"arisefit/internal/repository"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newTestProgression(t *testing.T) (*ProgressionService, *repository.UserRepository, *models.User) {
	t.Helper()

	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	attrs := repository.NewAttributeRepository(db)
	activity := repository.NewActivityRepository(db)
	unlocks := repository.NewUnlockRepository(db)

	svc := NewProgressionService(db, users, attrs, activity, unlocks, nil)

	user, err := users.CreateUser("testhunter", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return svc, users, user
}

func TestGrantXPLevelsUp(t *testing.T) {
	svc, users, user := newTestProgression(t)

	result, err := svc.GrantXP(user.ID, 250)
	if err != nil {
		t.Fatalf("GrantXP failed: %v", err)
	}

	if result.Level != 2 {
		t.Errorf("level = %d, want 2", result.Level)
	}
	if result.XP != 150 {
		t.Errorf("xp = %d, want 150", result.XP)
	}
	if !result.LeveledUp || result.LevelsGained != 1 {
		t.Errorf("leveledUp = %v, levelsGained = %d, want true, 1", result.LeveledUp, result.LevelsGained)
	}
	if result.PointsAwarded != 2 {
		t.Errorf("pointsAwarded = %d, want 2", result.PointsAwarded)
	}
	if result.Rank != progression.RankD {
		t.Errorf("rank = %s, want D", result.Rank)
	}

	stored, err := users.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.Level != 2 || stored.XP != 150 || stored.UnspentStatPoints != 2 {
		t.Errorf("stored state = level %d, xp %d, points %d; want 2, 150, 2",
			stored.Level, stored.XP, stored.UnspentStatPoints)
	}
}

func TestGrantXPRejectsBadInput(t *testing.T) {
	svc, _, user := newTestProgression(t)

	if _, err := svc.GrantXP(user.ID, 0); !errors.Is(err, progression.ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.GrantXP(user.ID, -50); !errors.Is(err, progression.ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.GrantXP(99999, 50); !errors.Is(err, progression.ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestGrantXPAwardsBadges(t *testing.T) {
	svc, _, user := newTestProgression(t)

	// 1500 XP takes a fresh character past level 5: 100+200+300+400 = 1000
	// for level 5, leaving 500 toward level 6.
	result, err := svc.GrantXP(user.ID, 1500)
	if err != nil {
		t.Fatalf("GrantXP failed: %v", err)
	}
	if result.Level != 5 {
		t.Fatalf("level = %d, want 5", result.Level)
	}

	got := make(map[string]bool)
	for _, b := range result.NewBadges {
		got[b.ID] = true
	}
	if !got["rank_d"] || !got["rising_star"] {
		t.Errorf("new badges = %v, want rank_d and rising_star", result.NewBadges)
	}

	// Badges are never awarded twice.
	again, err := svc.GrantXP(user.ID, 10)
	if err != nil {
		t.Fatalf("second GrantXP failed: %v", err)
	}
	if len(again.NewBadges) != 0 {
		t.Errorf("second grant awarded badges again: %v", again.NewBadges)
	}
}

func TestAllocateStatPoints(t *testing.T) {
	svc, users, user := newTestProgression(t)

	if err := users.UpdateProgression(user.ID, 0, 1, 10); err != nil {
		t.Fatalf("failed to seed points: %v", err)
	}

	result, err := svc.AllocateStatPoints(user.ID, progression.AttrStrength, 3)
	if err != nil {
		t.Fatalf("AllocateStatPoints failed: %v", err)
	}
	if result.Value != 3 || result.Remaining != 7 {
		t.Errorf("value = %d, remaining = %d; want 3, 7", result.Value, result.Remaining)
	}

	if _, err := svc.AllocateStatPoints(user.ID, "charisma", 1); !errors.Is(err, progression.ErrInvalidAttribute) {
		t.Errorf("unknown attribute error = %v, want ErrInvalidAttribute", err)
	}
	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrAgility, 0); !errors.Is(err, progression.ErrInvalidAmount) {
		t.Errorf("zero points error = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrAgility, 100); !errors.Is(err, progression.ErrInsufficientPoints) {
		t.Errorf("overspend error = %v, want ErrInsufficientPoints", err)
	}
}

func TestAllocateHardCapIsAtomic(t *testing.T) {
	svc, users, user := newTestProgression(t)

	if err := users.UpdateProgression(user.ID, 0, 1, 60); err != nil {
		t.Fatalf("failed to seed points: %v", err)
	}

	// Walk strength up to 99.
	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrStrength, 49); err != nil {
		t.Fatalf("failed to pre-allocate: %v", err)
	}
	attrs, err := svc.GetAttributes(user.ID)
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}
	attrs.Strength = 99
	if err := repository.NewAttributeRepository(svc.db).UpdateCurrent(attrs); err != nil {
		t.Fatalf("failed to set strength: %v", err)
	}

	_, err = svc.AllocateStatPoints(user.ID, progression.AttrStrength, 2)
	if !errors.Is(err, progression.ErrHardCapExceeded) {
		t.Fatalf("hard cap error = %v, want ErrHardCapExceeded", err)
	}

	// Nothing may change on a rejected allocation.
	attrs, err = svc.GetAttributes(user.ID)
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}
	if attrs.Strength != 99 {
		t.Errorf("strength = %d, want 99", attrs.Strength)
	}
	stored, _ := users.GetUserByID(user.ID)
	if stored.UnspentStatPoints != 11 {
		t.Errorf("unspent = %d, want 11", stored.UnspentStatPoints)
	}

	// Landing exactly on the cap is allowed.
	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrStrength, 1); err != nil {
		t.Errorf("allocation to exactly 100 failed: %v", err)
	}
}

func TestLazyAttributeRowDerivesRank(t *testing.T) {
	svc, users, user := newTestProgression(t)

	// A progression row can outlive its attribute row, e.g. after a partial
	// backup import. The lazily created row must carry the level's rank, not
	// the default.
	if err := users.UpdateProgression(user.ID, 0, 30, 5); err != nil {
		t.Fatalf("failed to level user: %v", err)
	}

	attrs, err := svc.GetAttributes(user.ID)
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}
	if attrs.Rank != progression.RankC {
		t.Errorf("lazily created rank = %s, want C (level 30)", attrs.Rank)
	}

	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrStrength, 1); err != nil {
		t.Fatalf("AllocateStatPoints failed: %v", err)
	}
	attrs, err = svc.GetAttributes(user.ID)
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}
	if attrs.Rank != progression.RankC {
		t.Errorf("rank after allocate = %s, want C", attrs.Rank)
	}

	// Allocation may also be the first touch that creates the row.
	other, err := users.CreateUser("latecomer", "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if err := users.UpdateProgression(other.ID, 0, 50, 5); err != nil {
		t.Fatalf("failed to level user: %v", err)
	}
	if _, err := svc.AllocateStatPoints(other.ID, progression.AttrAgility, 1); err != nil {
		t.Fatalf("AllocateStatPoints failed: %v", err)
	}
	attrs, err = svc.GetAttributes(other.ID)
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}
	if attrs.Rank != progression.RankB {
		t.Errorf("rank after allocate-created row = %s, want B (level 50)", attrs.Rank)
	}
}

func TestResetAttributes(t *testing.T) {
	svc, users, user := newTestProgression(t)

	if _, err := svc.InitializeAttributes(user.ID, map[string]int{
		"strength": 3, "agility": 2, "stamina": 4, "endurance": 2, "intelligence": 5,
	}); err != nil {
		t.Fatalf("InitializeAttributes failed: %v", err)
	}

	if err := users.UpdateProgression(user.ID, 0, 1, 6); err != nil {
		t.Fatalf("failed to seed points: %v", err)
	}
	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrStrength, 4); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if _, err := svc.AllocateStatPoints(user.ID, progression.AttrAgility, 2); err != nil {
		t.Fatalf("allocate failed: %v", err)
	}

	start := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	result, err := svc.ResetAttributes(user.ID)
	if err != nil {
		t.Fatalf("ResetAttributes failed: %v", err)
	}

	// Every spent point comes back; no points are created or destroyed.
	if result.PointsRefunded != 6 {
		t.Errorf("refunded = %d, want 6", result.PointsRefunded)
	}
	if result.UnspentPoints != 6 {
		t.Errorf("unspent after reset = %d, want 6", result.UnspentPoints)
	}
	if result.Attributes.Strength != 3 || result.Attributes.Agility != 2 {
		t.Errorf("attributes not restored to base: %+v", result.Attributes)
	}
	if want := start.Add(models.ResetCooldown); !result.NextResetDate.Equal(want) {
		t.Errorf("nextResetDate = %v, want %v", result.NextResetDate, want)
	}

	// Immediately resetting again hits the cooldown.
	_, err = svc.ResetAttributes(user.ID)
	var cooldown *progression.CooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("second reset error = %v, want CooldownError", err)
	}
	if cooldown.DaysRemaining != 7 {
		t.Errorf("daysRemaining = %d, want 7", cooldown.DaysRemaining)
	}

	// Exactly seven days later the reset is allowed again.
	svc.now = func() time.Time { return start.Add(models.ResetCooldown) }
	if _, err := svc.ResetAttributes(user.ID); err != nil {
		t.Errorf("reset after exactly 7 days failed: %v", err)
	}
}

func TestDisplayTitleFollowsPriority(t *testing.T) {
	svc, _, user := newTestProgression(t)

	unlockRepo := repository.NewUnlockRepository(svc.db)
	if err := unlockRepo.Insert(user.ID, models.UnlockTitle, "Uncrowned King", "Uncrowned King"); err != nil {
		t.Fatalf("failed to seed title: %v", err)
	}
	if err := unlockRepo.Insert(user.ID, models.UnlockTitle, "Consistency Legend", "Consistency Legend"); err != nil {
		t.Fatalf("failed to seed title: %v", err)
	}

	// The later-earned lower-tier title must not displace the higher one.
	_, title, err := svc.GetUnlocks(user.ID)
	if err != nil {
		t.Fatalf("GetUnlocks failed: %v", err)
	}
	if title != "Uncrowned King" {
		t.Errorf("display title = %q, want %q", title, "Uncrowned King")
	}
}

func TestResetAdoptsLegacyBase(t *testing.T) {
	svc, _, user := newTestProgression(t)

	// Simulate an account from before base tracking: current values set,
	// base all zero.
	attrs, err := svc.GetAttributes(user.ID)
	if err != nil {
		t.Fatalf("GetAttributes failed: %v", err)
	}
	attrs.Strength = 5
	attrs.Agility = 3
	if err := repository.NewAttributeRepository(svc.db).UpdateCurrent(attrs); err != nil {
		t.Fatalf("failed to seed legacy attributes: %v", err)
	}

	result, err := svc.ResetAttributes(user.ID)
	if err != nil {
		t.Fatalf("ResetAttributes failed: %v", err)
	}

	// The current values become the base, so nothing is refunded and
	// nothing is wiped.
	if result.PointsRefunded != 0 {
		t.Errorf("refunded = %d, want 0", result.PointsRefunded)
	}
	if result.Attributes.Strength != 5 || result.Attributes.Agility != 3 {
		t.Errorf("legacy attributes wiped: %+v", result.Attributes)
	}
}

func TestInitializeAttributesOnce(t *testing.T) {
	svc, _, user := newTestProgression(t)

	attrs, err := svc.InitializeAttributes(user.ID, map[string]int{"strength": 50, "agility": -3})
	if err != nil {
		t.Fatalf("InitializeAttributes failed: %v", err)
	}
	if attrs.Strength != 10 {
		t.Errorf("strength = %d, want clamped 10", attrs.Strength)
	}
	if attrs.Agility != 1 {
		t.Errorf("agility = %d, want clamped 1", attrs.Agility)
	}
	if attrs.BaseStrength != attrs.Strength {
		t.Errorf("base strength = %d, want %d", attrs.BaseStrength, attrs.Strength)
	}

	if _, err := svc.InitializeAttributes(user.ID, map[string]int{"strength": 1}); !errors.Is(err, progression.ErrValidation) {
		t.Errorf("second initialize error = %v, want ErrValidation", err)
	}
}
