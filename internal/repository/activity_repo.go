package repository

import (
	"database/sql"
	"fmt"
	"time"

	"arisefit/internal/database"
	"arisefit/internal/models"
)

// ActivityRepository handles workouts, meals, quests and challenge
// completions.
type ActivityRepository struct {
	db database.DBTX
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db database.DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ActivityRepository) WithTx(tx *database.Tx) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

// CreateWorkout inserts a workout record.
func (r *ActivityRepository) CreateWorkout(w *models.Workout) error {
	query := `
		INSERT INTO workouts (user_id, name, sets, reps, duration, intensity, logged_only, xp_gained)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		w.UserID, w.Name, w.Sets, w.Reps, w.Duration, w.Intensity, w.LoggedOnly, w.XPGained,
	)
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	w.ID = id
	return nil
}

// GetWorkouts returns a user's workouts, newest first.
func (r *ActivityRepository) GetWorkouts(userID int64, limit int) ([]models.Workout, error) {
	query := `
		SELECT id, user_id, name, sets, reps, duration, intensity, logged_only, xp_gained, created_at
		FROM workouts
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Sets, &w.Reps, &w.Duration,
			&w.Intensity, &w.LoggedOnly, &w.XPGained, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}

	return workouts, nil
}

// CreateMeal inserts a meal record.
func (r *ActivityRepository) CreateMeal(m *models.Meal) error {
	query := `
		INSERT INTO meals (user_id, name, calories)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, m.UserID, m.Name, m.Calories)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	m.ID = id
	return nil
}

// GetMeals returns a user's meals, newest first.
func (r *ActivityRepository) GetMeals(userID int64, limit int) ([]models.Meal, error) {
	query := `
		SELECT id, user_id, name, calories, created_at
		FROM meals
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Calories, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	return meals, nil
}

// GetQuestByDate returns the user's quest for the given date, or nil.
func (r *ActivityRepository) GetQuestByDate(userID int64, questDate string) (*models.Quest, error) {
	query := `
		SELECT id, user_id, title, description, base_reps, base_duration,
		       quest_date, completed, completed_at, quote, created_at
		FROM quests
		WHERE user_id = ? AND quest_date = ?
	`
	q := &models.Quest{}
	err := r.db.QueryRow(query, userID, questDate).Scan(
		&q.ID, &q.UserID, &q.Title, &q.Description, &q.BaseReps, &q.BaseDuration,
		&q.QuestDate, &q.Completed, &q.CompletedAt, &q.Quote, &q.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return q, nil
}

// CreateQuest inserts a quest drawn from the rotation pool.
func (r *ActivityRepository) CreateQuest(q *models.Quest) error {
	query := `
		INSERT INTO quests (user_id, title, description, base_reps, base_duration, quest_date, quote)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		q.UserID, q.Title, q.Description, q.BaseReps, q.BaseDuration, q.QuestDate, q.Quote,
	)
	if err != nil {
		return fmt.Errorf("failed to create quest: %w", err)
	}
	q.ID = id
	return nil
}

// CompleteQuest marks an uncompleted quest as done. Returns false if the
// quest was already completed or does not belong to the user.
func (r *ActivityRepository) CompleteQuest(questID, userID int64, at time.Time) (bool, error) {
	query := `
		UPDATE quests
		SET completed = ?, completed_at = ?
		WHERE id = ? AND user_id = ? AND completed = ?
	`
	result, err := r.db.Exec(query, true, at, questID, userID, false)
	if err != nil {
		return false, fmt.Errorf("failed to complete quest: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read completion result: %w", err)
	}
	return rows > 0, nil
}

// CountCompletedQuests returns how many quests the user has finished. Feeds
// quest-based badge and title thresholds.
func (r *ActivityRepository) CountCompletedQuests(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM quests WHERE user_id = ? AND completed = ?", userID, true).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count quests: %w", err)
	}
	return count, nil
}

// CreateChallengeCompletion records a finished challenge.
func (r *ActivityRepository) CreateChallengeCompletion(c *models.ChallengeCompletion) error {
	query := `
		INSERT INTO challenge_completions (user_id, category, difficulty, intensity, xp_gained)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, c.UserID, c.Category, c.Difficulty, c.Intensity, c.XPGained)
	if err != nil {
		return fmt.Errorf("failed to create challenge completion: %w", err)
	}
	c.ID = id
	return nil
}

// GetChallengeCompletions returns a user's finished challenges, newest first.
func (r *ActivityRepository) GetChallengeCompletions(userID int64, limit int) ([]models.ChallengeCompletion, error) {
	query := `
		SELECT id, user_id, category, difficulty, intensity, xp_gained, completed_at
		FROM challenge_completions
		WHERE user_id = ?
		ORDER BY completed_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenge completions: %w", err)
	}
	defer rows.Close()

	var completions []models.ChallengeCompletion
	for rows.Next() {
		var c models.ChallengeCompletion
		if err := rows.Scan(&c.ID, &c.UserID, &c.Category, &c.Difficulty, &c.Intensity,
			&c.XPGained, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge completion: %w", err)
		}
		completions = append(completions, c)
	}

	return completions, nil
}
