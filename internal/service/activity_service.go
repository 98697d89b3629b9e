package service

import (
	"fmt"
	"time"

	"arisefit/internal/models"
	"arisefit/internal/progression"
	"arisefit/internal/repository"
)

// questTemplate is one entry in the daily quest rotation pool.
type questTemplate struct {
	Title        string
	Description  string
	BaseReps     int
	BaseDuration int
	Quote        string
}

// questPool is the daily rotation. Each user walks the pool at a per-user
// offset so the whole player base is not doing the same quest on the same
// day. Saturday is a rest day and draws nothing.
var questPool = []questTemplate{
	{
		Title: "Push-Up Protocol", Description: "Complete the assigned push-ups in as few sets as you need.",
		BaseReps: 20, BaseDuration: 0,
		Quote: "The strong get stronger one rep at a time.",
	},
	{
		Title: "Squat Gauntlet", Description: "Bodyweight squats, full depth, controlled tempo.",
		BaseReps: 30, BaseDuration: 0,
		Quote: "Legs carry you through every gate.",
	},
	{
		Title: "Plank Endurance Trial", Description: "Hold a plank. Rest as needed, but finish the total time.",
		BaseReps: 0, BaseDuration: 5,
		Quote: "Stillness is its own kind of strength.",
	},
	{
		Title: "Runner's Awakening", Description: "Run or brisk-walk without stopping.",
		BaseReps: 0, BaseDuration: 20,
		Quote: "Distance is just repetition of a single step.",
	},
	{
		Title: "Burpee Breakthrough", Description: "Burpees at a steady pace. Form over speed.",
		BaseReps: 15, BaseDuration: 0,
		Quote: "What exhausts you today arms you tomorrow.",
	},
	{
		Title: "Core Circuit", Description: "Sit-ups, leg raises and twists, split however you like.",
		BaseReps: 40, BaseDuration: 0,
		Quote: "Every system needs a stable core.",
	},
	{
		Title: "Mobility Sweep", Description: "Full-body stretching session, head to toe.",
		BaseReps: 0, BaseDuration: 15,
		Quote: "Flexibility today prevents injury tomorrow.",
	},
	{
		Title: "Stair Climb Trial", Description: "Climb stairs or hill repeats at a steady effort.",
		BaseReps: 0, BaseDuration: 10,
		Quote: "The only way up is up.",
	},
}

// ActivityService handles activity logging and the XP it awards. All XP flows
// through the progression service so level, rank and unlock changes stay
// consistent.
type ActivityService struct {
	users       *repository.UserRepository
	activity    *repository.ActivityRepository
	progression *ProgressionService
	policy      progression.RewardPolicy

	now func() time.Time
}

// NewActivityService creates the activity service.
func NewActivityService(
	users *repository.UserRepository,
	activity *repository.ActivityRepository,
	prog *ProgressionService,
	policy progression.RewardPolicy,
) *ActivityService {
	return &ActivityService{
		users:       users,
		activity:    activity,
		progression: prog,
		policy:      policy,
		now:         time.Now,
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// touchStreak advances the user's daily streak for an activity performed now.
// Same-day repeats leave the streak alone; a gap of more than one day resets
// it to 1.
func (s *ActivityService) touchStreak(userID int64) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return progression.ErrUserNotFound
	}

	now := s.now()
	today := dateKey(now)
	if user.LastActivityDate == today {
		return nil
	}

	streak := 1
	if user.LastActivityDate == dateKey(now.AddDate(0, 0, -1)) {
		streak = user.Streak + 1
	}

	return s.users.UpdateStreak(userID, streak, today)
}

// LogWorkout records a workout and grants its XP.
func (s *ActivityService) LogWorkout(userID int64, name string, sets, reps, durationMin int, intensity string, loggedOnly bool) (*models.Workout, *GrantResult, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("%w: workout name is required", progression.ErrValidation)
	}
	if sets < 0 || reps < 0 || durationMin < 0 {
		return nil, nil, fmt.Errorf("%w: workout counts must not be negative", progression.ErrValidation)
	}
	if intensity == "" {
		intensity = progression.IntensityNormal
	}

	workout := &models.Workout{
		UserID:     userID,
		Name:       name,
		Sets:       sets,
		Reps:       reps,
		Duration:   durationMin,
		Intensity:  intensity,
		LoggedOnly: loggedOnly,
		XPGained:   s.policy.WorkoutXP(sets, reps, durationMin, intensity),
	}
	if err := s.activity.CreateWorkout(workout); err != nil {
		return nil, nil, err
	}

	if err := s.touchStreak(userID); err != nil {
		return nil, nil, err
	}

	grant, err := s.progression.GrantXP(userID, workout.XPGained)
	if err != nil {
		return nil, nil, err
	}

	return workout, grant, nil
}

// LogMeal records a meal and grants its flat XP.
func (s *ActivityService) LogMeal(userID int64, name string, calories int) (*models.Meal, *GrantResult, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("%w: meal name is required", progression.ErrValidation)
	}
	if calories < 0 {
		return nil, nil, fmt.Errorf("%w: calories must not be negative", progression.ErrValidation)
	}

	meal := &models.Meal{UserID: userID, Name: name, Calories: calories}
	if err := s.activity.CreateMeal(meal); err != nil {
		return nil, nil, err
	}

	if err := s.touchStreak(userID); err != nil {
		return nil, nil, err
	}

	grant, err := s.progression.GrantXP(userID, s.policy.MealXPAward())
	if err != nil {
		return nil, nil, err
	}

	return meal, grant, nil
}

// GetTodayQuest returns the user's quest for today, drawing it from the
// rotation pool on first access. On rest days it returns (nil, true, nil).
func (s *ActivityService) GetTodayQuest(userID int64) (*models.Quest, bool, error) {
	now := s.now()
	if now.Weekday() == time.Saturday {
		return nil, true, nil
	}

	today := dateKey(now)
	quest, err := s.activity.GetQuestByDate(userID, today)
	if err != nil {
		return nil, false, err
	}
	if quest != nil {
		return quest, false, nil
	}

	// Stable per-user rotation: day index plus user ID walks the pool.
	dayIndex := now.Unix() / 86400
	tmpl := questPool[(dayIndex+userID)%int64(len(questPool))]

	quest = &models.Quest{
		UserID:       userID,
		Title:        tmpl.Title,
		Description:  tmpl.Description,
		BaseReps:     tmpl.BaseReps,
		BaseDuration: tmpl.BaseDuration,
		QuestDate:    today,
		Quote:        tmpl.Quote,
	}
	if err := s.activity.CreateQuest(quest); err != nil {
		return nil, false, err
	}

	return quest, false, nil
}

// CompleteQuest marks today's quest done and grants the quest award. A quest
// can only pay out once.
func (s *ActivityService) CompleteQuest(userID, questID int64) (*GrantResult, error) {
	done, err := s.activity.CompleteQuest(questID, userID, s.now())
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("%w: quest already completed or not found", progression.ErrValidation)
	}

	if err := s.touchStreak(userID); err != nil {
		return nil, err
	}

	return s.progression.GrantXP(userID, s.policy.QuestXPAward())
}

// CompleteChallenge records a finished challenge and grants its XP.
func (s *ActivityService) CompleteChallenge(userID int64, category, difficulty, intensity string) (*models.ChallengeCompletion, *GrantResult, error) {
	if category == "" {
		return nil, nil, fmt.Errorf("%w: challenge category is required", progression.ErrValidation)
	}
	if difficulty == "" {
		difficulty = progression.DifficultyBeginner
	}
	if intensity == "" {
		intensity = progression.IntensityNormal
	}

	completion := &models.ChallengeCompletion{
		UserID:     userID,
		Category:   category,
		Difficulty: difficulty,
		Intensity:  intensity,
		XPGained:   s.policy.ChallengeXPAward(difficulty, intensity),
	}
	if err := s.activity.CreateChallengeCompletion(completion); err != nil {
		return nil, nil, err
	}

	if err := s.touchStreak(userID); err != nil {
		return nil, nil, err
	}

	grant, err := s.progression.GrantXP(userID, completion.XPGained)
	if err != nil {
		return nil, nil, err
	}

	return completion, grant, nil
}

// GetWorkouts returns the user's recent workouts.
func (s *ActivityService) GetWorkouts(userID int64, limit int) ([]models.Workout, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activity.GetWorkouts(userID, limit)
}

// GetMeals returns the user's recent meals.
func (s *ActivityService) GetMeals(userID int64, limit int) ([]models.Meal, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activity.GetMeals(userID, limit)
}

// GetChallengeCompletions returns the user's recent challenge completions.
func (s *ActivityService) GetChallengeCompletions(userID int64, limit int) ([]models.ChallengeCompletion, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activity.GetChallengeCompletions(userID, limit)
}
