package models

import "time"

// Workout is a logged training session. Workouts with LoggedOnly set were
// recorded manually rather than completed through a timed session.
type Workout struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Duration   int       `json:"duration"` // minutes
	Intensity  string    `json:"intensity"`
	LoggedOnly bool      `json:"loggedOnly"`
	XPGained   int       `json:"xpGained"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Meal is a logged meal entry.
type Meal struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	CreatedAt time.Time `json:"createdAt"`
}

// Quest is one user's quest for a given day, drawn from the rotation pool.
type Quest struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	BaseReps     int        `json:"baseReps"`
	BaseDuration int        `json:"baseDuration"`
	QuestDate    string     `json:"questDate"` // YYYY-MM-DD
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Quote        string     `json:"quote"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ChallengeCompletion records one finished workout challenge.
type ChallengeCompletion struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Intensity   string    `json:"intensity"`
	XPGained    int       `json:"xpGained"`
	CompletedAt time.Time `json:"completedAt"`
}
