package service

import (
	"fmt"
	"sync"
	"time"

	"arisefit/internal/database"
	"arisefit/internal/models"
	"arisefit/internal/progression"
	"arisefit/internal/repository"
)

// Notifier receives progression events after they are committed. Delivery is
// fire-and-forget: failures are logged by the implementation and never affect
// the mutation that produced the event.
type Notifier interface {
	NotifyLevelUp(user *models.User, newLevel, pointsAwarded int)
	NotifyRankUp(user *models.User, newRank progression.Rank)
	NotifyMilestone(user *models.User, attribute string, milestone int)
	NotifyUnlock(user *models.User, kind, key, name string)
}

// GrantResult reports everything a single XP grant changed.
type GrantResult struct {
	XPGained      int                 `json:"xpGained"`
	XP            int                 `json:"xp"`
	Level         int                 `json:"level"`
	LeveledUp     bool                `json:"leveledUp"`
	LevelsGained  int                 `json:"levelsGained"`
	PointsAwarded int                 `json:"pointsAwarded"`
	Rank          progression.Rank    `json:"rank"`
	RankChanged   bool                `json:"rankChanged"`
	NewBadges     []progression.Badge `json:"newBadges,omitempty"`
	NewTitle      string              `json:"newTitle,omitempty"`
}

// AllocateResult reports the outcome of spending stat points. Milestone is
// absent when the allocation crossed no decade boundary.
type AllocateResult struct {
	Attribute string              `json:"attribute"`
	Value     int                 `json:"value"`
	Spent     int                 `json:"spent"`
	Remaining int                 `json:"remaining"`
	Milestone int                 `json:"milestone,omitempty"`
	NewBadges []progression.Badge `json:"newBadges,omitempty"`
	NewTitle  string              `json:"newTitle,omitempty"`
}

// ResetResult reports the outcome of an attribute reset.
type ResetResult struct {
	PointsRefunded int                  `json:"pointsRefunded"`
	UnspentPoints  int                  `json:"unspentPoints"`
	NextResetDate  time.Time            `json:"nextResetDate"`
	Attributes     *models.AttributeSet `json:"-"`
}

// ProgressionService owns every mutation of a user's XP, level, rank and
// attributes. Each mutation takes the user's stripe lock and runs in a single
// transaction, so concurrent grants and allocations for the same user
// serialize instead of losing updates.
type ProgressionService struct {
	db       *database.DB
	users    *repository.UserRepository
	attrs    *repository.AttributeRepository
	activity *repository.ActivityRepository
	unlocks  *repository.UnlockRepository
	notifier Notifier

	locks [64]sync.Mutex
	now   func() time.Time
}

// NewProgressionService creates the progression service. notifier may be nil.
func NewProgressionService(
	db *database.DB,
	users *repository.UserRepository,
	attrs *repository.AttributeRepository,
	activity *repository.ActivityRepository,
	unlocks *repository.UnlockRepository,
	notifier Notifier,
) *ProgressionService {
	return &ProgressionService{
		db:       db,
		users:    users,
		attrs:    attrs,
		activity: activity,
		unlocks:  unlocks,
		notifier: notifier,
		now:      time.Now,
	}
}

// userLock returns the stripe lock for a user. Stripes trade a small chance
// of false sharing for a bounded lock table.
func (s *ProgressionService) userLock(userID int64) *sync.Mutex {
	return &s.locks[uint64(userID)%uint64(len(s.locks))]
}

// GrantXP awards XP to a user and applies any resulting level, point, rank
// and unlock changes atomically.
func (s *ProgressionService) GrantXP(userID int64, amount int) (*GrantResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: xp amount must be positive", progression.ErrInvalidAmount)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	users := s.users.WithTx(tx)
	user, err := users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, progression.ErrUserNotFound
	}

	lr := progression.ApplyXP(user.XP, user.Level, amount)
	if err := users.UpdateProgression(userID, int64(lr.XP), lr.Level, user.UnspentStatPoints+lr.PointsAwarded); err != nil {
		return nil, err
	}

	result := &GrantResult{
		XPGained:      amount,
		XP:            lr.XP,
		Level:         lr.Level,
		LeveledUp:     lr.LeveledUp,
		LevelsGained:  lr.LevelsGained,
		PointsAwarded: lr.PointsAwarded,
		Rank:          progression.RankForLevel(lr.Level),
	}

	attrs, err := s.attrs.WithTx(tx).GetOrCreate(userID, lr.Level)
	if err != nil {
		return nil, err
	}

	oldRank := attrs.Rank
	if result.Rank != oldRank {
		if err := s.attrs.WithTx(tx).UpdateRank(userID, result.Rank); err != nil {
			return nil, err
		}
		attrs.Rank = result.Rank
		result.RankChanged = true
	}

	user.XP = lr.XP
	user.Level = lr.Level
	user.UnspentStatPoints += lr.PointsAwarded

	newBadges, newTitle, err := s.syncUnlocks(tx, user, attrs)
	if err != nil {
		return nil, err
	}
	result.NewBadges = newBadges
	result.NewTitle = newTitle

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.notifyGrant(user, result)
	return result, nil
}

func (s *ProgressionService) notifyGrant(user *models.User, result *GrantResult) {
	if s.notifier == nil {
		return
	}
	if result.LeveledUp {
		s.notifier.NotifyLevelUp(user, result.Level, result.PointsAwarded)
	}
	if result.RankChanged {
		s.notifier.NotifyRankUp(user, result.Rank)
	}
	for _, b := range result.NewBadges {
		s.notifier.NotifyUnlock(user, models.UnlockBadge, b.ID, b.Name)
	}
	if result.NewTitle != "" {
		s.notifier.NotifyUnlock(user, models.UnlockTitle, result.NewTitle, result.NewTitle)
	}
}

// AllocateStatPoints spends unspent stat points on one attribute. The whole
// allocation is rejected if any part would push the attribute past the hard
// cap; there are no partial spends.
func (s *ProgressionService) AllocateStatPoints(userID int64, attribute string, points int) (*AllocateResult, error) {
	if !progression.ValidAttribute(attribute) {
		return nil, fmt.Errorf("%w: %s", progression.ErrInvalidAttribute, attribute)
	}
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", progression.ErrInvalidAmount)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	users := s.users.WithTx(tx)
	user, err := users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, progression.ErrUserNotFound
	}
	if user.UnspentStatPoints < points {
		return nil, fmt.Errorf("%w: have %d, need %d", progression.ErrInsufficientPoints, user.UnspentStatPoints, points)
	}

	attrs, err := s.attrs.WithTx(tx).GetOrCreate(userID, user.Level)
	if err != nil {
		return nil, err
	}

	oldValue := attrs.Get(attribute)
	newValue := oldValue + points
	if newValue > progression.AttributeHardCap {
		return nil, fmt.Errorf("%w: %s would reach %d", progression.ErrHardCapExceeded, attribute, newValue)
	}

	attrs.Set(attribute, newValue)
	if err := s.attrs.WithTx(tx).UpdateCurrent(attrs); err != nil {
		return nil, err
	}
	if err := users.UpdateProgression(userID, int64(user.XP), user.Level, user.UnspentStatPoints-points); err != nil {
		return nil, err
	}
	user.UnspentStatPoints -= points

	result := &AllocateResult{
		Attribute: attribute,
		Value:     newValue,
		Spent:     points,
		Remaining: user.UnspentStatPoints,
		Milestone: progression.Milestone(oldValue, newValue),
	}

	newBadges, newTitle, err := s.syncUnlocks(tx, user, attrs)
	if err != nil {
		return nil, err
	}
	result.NewBadges = newBadges
	result.NewTitle = newTitle

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.notifier != nil {
		if result.Milestone > 0 {
			s.notifier.NotifyMilestone(user, attribute, result.Milestone)
		}
		for _, b := range result.NewBadges {
			s.notifier.NotifyUnlock(user, models.UnlockBadge, b.ID, b.Name)
		}
		if result.NewTitle != "" {
			s.notifier.NotifyUnlock(user, models.UnlockTitle, result.NewTitle, result.NewTitle)
		}
	}

	return result, nil
}

// ResetAttributes returns every point above the awakening base to the unspent
// pool and restores current values to base. Allowed once per cooldown window.
func (s *ProgressionService) ResetAttributes(userID int64) (*ResetResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	users := s.users.WithTx(tx)
	user, err := users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, progression.ErrUserNotFound
	}

	now := s.now()
	if !user.CanReset(now) {
		return nil, &progression.CooldownError{DaysRemaining: user.ResetDaysRemaining(now)}
	}

	attrs, err := s.attrs.WithTx(tx).GetOrCreate(userID, user.Level)
	if err != nil {
		return nil, err
	}

	// Accounts predating base tracking have spent points but an all-zero
	// base. Adopt the current values as the base so a reset cannot wipe
	// their awakening stats.
	if attrs.BaseTotal() == 0 && attrs.Total() > 0 {
		attrs.BaseStrength = attrs.Strength
		attrs.BaseAgility = attrs.Agility
		attrs.BaseStamina = attrs.Stamina
		attrs.BaseEndurance = attrs.Endurance
		attrs.BaseIntelligence = attrs.Intelligence
	}

	refunded := attrs.Total() - attrs.BaseTotal()
	if refunded < 0 {
		refunded = 0
	}

	attrs.Strength = attrs.BaseStrength
	attrs.Agility = attrs.BaseAgility
	attrs.Stamina = attrs.BaseStamina
	attrs.Endurance = attrs.BaseEndurance
	attrs.Intelligence = attrs.BaseIntelligence

	if err := s.attrs.WithTx(tx).UpdateAll(attrs); err != nil {
		return nil, err
	}
	if err := users.UpdateProgression(userID, int64(user.XP), user.Level, user.UnspentStatPoints+refunded); err != nil {
		return nil, err
	}
	if err := users.SetLastResetDate(userID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ResetResult{
		PointsRefunded: refunded,
		UnspentPoints:  user.UnspentStatPoints + refunded,
		NextResetDate:  now.Add(models.ResetCooldown),
		Attributes:     attrs,
	}, nil
}

// InitializeAttributes records the awakening assessment result as both the
// current and base values. Values are clamped to the assessment range. A
// second initialization is rejected once a base exists.
func (s *ProgressionService) InitializeAttributes(userID int64, values map[string]int) (*models.AttributeSet, error) {
	for name := range values {
		if !progression.ValidAttribute(name) {
			return nil, fmt.Errorf("%w: %s", progression.ErrInvalidAttribute, name)
		}
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.users.WithTx(tx).GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, progression.ErrUserNotFound
	}

	attrs, err := s.attrs.WithTx(tx).GetOrCreate(userID, user.Level)
	if err != nil {
		return nil, err
	}
	if attrs.BaseTotal() > 0 {
		return nil, fmt.Errorf("%w: attributes already initialized", progression.ErrValidation)
	}

	for _, name := range progression.AttributeNames {
		value := progression.ClampAssessmentValue(values[name])
		attrs.Set(name, value)
	}
	attrs.BaseStrength = attrs.Strength
	attrs.BaseAgility = attrs.Agility
	attrs.BaseStamina = attrs.Stamina
	attrs.BaseEndurance = attrs.Endurance
	attrs.BaseIntelligence = attrs.Intelligence

	if err := s.attrs.WithTx(tx).UpdateAll(attrs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return attrs, nil
}

// InitializeFromAssessment scores the awakening questionnaire and stores the
// result as the user's starting attributes.
func (s *ProgressionService) InitializeFromAssessment(userID int64, answers []progression.AssessmentAnswer) (*models.AttributeSet, error) {
	return s.InitializeAttributes(userID, progression.ScoreAssessment(answers))
}

// GetAttributes returns a user's attribute row, creating the zero row if the
// user has none yet.
func (s *ProgressionService) GetAttributes(userID int64) (*models.AttributeSet, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, progression.ErrUserNotFound
	}
	return s.attrs.GetOrCreate(userID, user.Level)
}

// GetUnlocks returns everything a user has earned plus their current display
// title.
func (s *ProgressionService) GetUnlocks(userID int64) ([]models.Unlock, string, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", progression.ErrUserNotFound
	}

	unlocks, err := s.unlocks.GetUnlocks(userID)
	if err != nil {
		return nil, "", err
	}

	// The displayed title is the highest-priority earned one, not the most
	// recently earned. A lower-tier title picked up later must not displace
	// a higher one.
	earned := make(map[string]bool)
	for _, u := range unlocks {
		if u.Kind == models.UnlockTitle {
			earned[u.Key] = true
		}
	}
	title := progression.DefaultTitle
	for _, t := range progression.Titles {
		if earned[t.Name] {
			title = t.Name
			break
		}
	}

	return unlocks, title, nil
}

// snapshot assembles the pure evaluation view from the user's counters.
func (s *ProgressionService) snapshot(tx *database.Tx, user *models.User, attrs *models.AttributeSet) (progression.StatsSnapshot, error) {
	quests, err := s.activity.WithTx(tx).CountCompletedQuests(user.ID)
	if err != nil {
		return progression.StatsSnapshot{}, err
	}

	return progression.StatsSnapshot{
		Level:           user.Level,
		XP:              user.XP,
		Streak:          user.Streak,
		Rank:            attrs.Rank,
		QuestsCompleted: quests,
		Strength:        attrs.Strength,
		Agility:         attrs.Agility,
		Stamina:         attrs.Stamina,
		Endurance:       attrs.Endurance,
		Intelligence:    attrs.Intelligence,
	}, nil
}

// syncUnlocks re-evaluates the full badge catalog and title ladder against
// the current snapshot, persists anything newly earned and returns it.
// Unlocks are never revoked; a badge once earned stays earned.
func (s *ProgressionService) syncUnlocks(tx *database.Tx, user *models.User, attrs *models.AttributeSet) ([]progression.Badge, string, error) {
	snap, err := s.snapshot(tx, user, attrs)
	if err != nil {
		return nil, "", err
	}

	unlockRepo := s.unlocks.WithTx(tx)

	earnedBadges, err := unlockRepo.GetEarnedKeys(user.ID, models.UnlockBadge)
	if err != nil {
		return nil, "", err
	}

	var newBadges []progression.Badge
	for _, id := range progression.EvaluateBadges(snap) {
		if earnedBadges[id] {
			continue
		}
		badge, ok := progression.BadgeByID(id)
		if !ok {
			continue
		}
		if err := unlockRepo.Insert(user.ID, models.UnlockBadge, badge.ID, badge.Name); err != nil {
			return nil, "", err
		}
		newBadges = append(newBadges, badge)
	}

	earnedTitles, err := unlockRepo.GetEarnedKeys(user.ID, models.UnlockTitle)
	if err != nil {
		return nil, "", err
	}

	var newTitle string
	if title := progression.EvaluateTitle(snap); title != progression.DefaultTitle && !earnedTitles[title] {
		if err := unlockRepo.Insert(user.ID, models.UnlockTitle, title, title); err != nil {
			return nil, "", err
		}
		newTitle = title
	}

	return newBadges, newTitle, nil
}

// EvaluateUnlocks re-runs unlock evaluation outside any other mutation, for
// callers that changed snapshot inputs through a side channel (streak jobs).
func (s *ProgressionService) EvaluateUnlocks(userID int64) ([]progression.Badge, string, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.users.WithTx(tx).GetUserByID(userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", progression.ErrUserNotFound
	}

	attrs, err := s.attrs.WithTx(tx).GetOrCreate(userID, user.Level)
	if err != nil {
		return nil, "", err
	}

	newBadges, newTitle, err := s.syncUnlocks(tx, user, attrs)
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.notifier != nil {
		for _, b := range newBadges {
			s.notifier.NotifyUnlock(user, models.UnlockBadge, b.ID, b.Name)
		}
		if newTitle != "" {
			s.notifier.NotifyUnlock(user, models.UnlockTitle, newTitle, newTitle)
		}
	}

	return newBadges, newTitle, nil
}
