package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"arisefit/internal/database"
	"arisefit/internal/repository"
)

// BackupData is the complete database backup structure.
type BackupData struct {
	Version    string            `json:"version"`
	ExportedAt time.Time         `json:"exported_at"`
	Users      []UserBackup      `json:"users"`
	Attributes []AttributeBackup `json:"attributes"`
	Workouts   []WorkoutBackup   `json:"workouts"`
	Meals      []MealBackup      `json:"meals"`
	Quests     []QuestBackup     `json:"quests"`
	Challenges []ChallengeBackup `json:"challenges"`
	Unlocks    []UnlockBackup    `json:"unlocks"`
	Messages   []MessageBackup   `json:"messages"`
}

type UserBackup struct {
	ID                int64      `json:"id"`
	Username          string     `json:"username"`
	PasswordHash      string     `json:"password_hash"`
	OAuthProvider     string     `json:"oauth_provider"`
	OAuthSubject      string     `json:"oauth_subject"`
	XP                int        `json:"xp"`
	Level             int        `json:"level"`
	UnspentStatPoints int        `json:"unspent_stat_points"`
	Streak            int        `json:"streak"`
	LastActivityDate  string     `json:"last_activity_date"`
	LastResetDate     *time.Time `json:"last_reset_date"`
	CreatedAt         time.Time  `json:"created_at"`
}

type AttributeBackup struct {
	UserID           int64  `json:"user_id"`
	Strength         int    `json:"strength"`
	Agility          int    `json:"agility"`
	Stamina          int    `json:"stamina"`
	Endurance        int    `json:"endurance"`
	Intelligence     int    `json:"intelligence"`
	BaseStrength     int    `json:"base_strength"`
	BaseAgility      int    `json:"base_agility"`
	BaseStamina      int    `json:"base_stamina"`
	BaseEndurance    int    `json:"base_endurance"`
	BaseIntelligence int    `json:"base_intelligence"`
	Rank             string `json:"rank"`
}

type WorkoutBackup struct {
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Duration   int       `json:"duration"`
	Intensity  string    `json:"intensity"`
	LoggedOnly bool      `json:"logged_only"`
	XPGained   int       `json:"xp_gained"`
	CreatedAt  time.Time `json:"created_at"`
}

type MealBackup struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	CreatedAt time.Time `json:"created_at"`
}

type QuestBackup struct {
	UserID       int64      `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	BaseReps     int        `json:"base_reps"`
	BaseDuration int        `json:"base_duration"`
	QuestDate    string     `json:"quest_date"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	Quote        string     `json:"quote"`
}

type ChallengeBackup struct {
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Intensity   string    `json:"intensity"`
	XPGained    int       `json:"xp_gained"`
	CompletedAt time.Time `json:"completed_at"`
}

type UnlockBackup struct {
	UserID   int64     `json:"user_id"`
	Kind     string    `json:"kind"`
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earned_at"`
}

type MessageBackup struct {
	SenderID   int64     `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// BackupService exports the full database to JSON and restores it again.
// Intended for the backup CLI and migrations between database backends.
type BackupService struct {
	db    *database.DB
	users *repository.UserRepository
}

// NewBackupService creates a new backup service.
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db, users: repository.NewUserRepository(db)}
}

// Export writes a complete backup to the given path.
func (s *BackupService) Export(outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()
	return s.ExportToWriter(f)
}

// ExportToWriter writes a complete backup as indented JSON.
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := BackupData{
		Version:    "1",
		ExportedAt: time.Now().UTC(),
	}

	steps := []func(*BackupData) error{
		s.exportUsers,
		s.exportAttributes,
		s.exportWorkouts,
		s.exportMeals,
		s.exportQuests,
		s.exportChallenges,
		s.exportUnlocks,
		s.exportMessages,
	}
	for _, step := range steps {
		if err := step(&backup); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Import restores a backup file into the current database. Existing rows are
// kept; users are matched by username and skipped if present.
func (s *BackupService) Import(inputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()
	return s.ImportFromReader(f)
}

// ImportFromReader restores a backup from a JSON stream.
func (s *BackupService) ImportFromReader(r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	// Backup user IDs differ from the IDs this database will assign, so
	// every child row is remapped through the username.
	idMap := make(map[int64]int64, len(backup.Users))

	for _, u := range backup.Users {
		var existingID int64
		err := s.db.QueryRow("SELECT id FROM users WHERE username = ?", u.Username).Scan(&existingID)
		if err == nil {
			log.Printf("Skipping existing user %s", u.Username)
			idMap[u.ID] = existingID
			continue
		}

		newID, err := s.db.ExecReturningID(`
			INSERT INTO users (username, password_hash, oauth_provider, oauth_subject,
				xp, level, unspent_stat_points, streak, last_activity_date, last_reset_date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.Username, u.PasswordHash, u.OAuthProvider, u.OAuthSubject,
			u.XP, u.Level, u.UnspentStatPoints, u.Streak, u.LastActivityDate, u.LastResetDate, u.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.Username, err)
		}
		idMap[u.ID] = newID
	}

	for _, a := range backup.Attributes {
		userID, ok := idMap[a.UserID]
		if !ok {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO core_attributes (user_id, strength, agility, stamina, endurance, intelligence,
				base_strength, base_agility, base_stamina, base_endurance, base_intelligence, current_rank)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, a.Strength, a.Agility, a.Stamina, a.Endurance, a.Intelligence,
			a.BaseStrength, a.BaseAgility, a.BaseStamina, a.BaseEndurance, a.BaseIntelligence, a.Rank,
		)
		if err != nil {
			return fmt.Errorf("failed to import attributes for user %d: %w", a.UserID, err)
		}
	}

	for _, w := range backup.Workouts {
		userID, ok := idMap[w.UserID]
		if !ok {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO workouts (user_id, name, sets, reps, duration, intensity, logged_only, xp_gained, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, w.Name, w.Sets, w.Reps, w.Duration, w.Intensity, w.LoggedOnly, w.XPGained, w.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import workout: %w", err)
		}
	}

	for _, m := range backup.Meals {
		userID, ok := idMap[m.UserID]
		if !ok {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO meals (user_id, name, calories, created_at)
			VALUES (?, ?, ?, ?)`,
			userID, m.Name, m.Calories, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import meal: %w", err)
		}
	}

	for _, q := range backup.Quests {
		userID, ok := idMap[q.UserID]
		if !ok {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO quests (user_id, title, description, base_reps, base_duration, quest_date, completed, completed_at, quote)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, q.Title, q.Description, q.BaseReps, q.BaseDuration, q.QuestDate, q.Completed, q.CompletedAt, q.Quote,
		)
		if err != nil {
			return fmt.Errorf("failed to import quest: %w", err)
		}
	}

	for _, c := range backup.Challenges {
		userID, ok := idMap[c.UserID]
		if !ok {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO challenge_completions (user_id, category, difficulty, intensity, xp_gained, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			userID, c.Category, c.Difficulty, c.Intensity, c.XPGained, c.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import challenge: %w", err)
		}
	}

	for _, u := range backup.Unlocks {
		userID, ok := idMap[u.UserID]
		if !ok {
			continue
		}
		_, err := s.db.Exec(`
			INSERT INTO unlocks (user_id, kind, unlock_key, name, earned_at)
			VALUES (?, ?, ?, ?, ?)`,
			userID, u.Kind, u.Key, u.Name, u.EarnedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import unlock: %w", err)
		}
	}

	for _, m := range backup.Messages {
		senderID := idMap[m.SenderID]
		_, err := s.db.Exec(`
			INSERT INTO messages (sender_id, sender_name, content, created_at)
			VALUES (?, ?, ?, ?)`,
			senderID, m.SenderName, m.Content, m.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to import message: %w", err)
		}
	}

	log.Printf("Import complete: %d users", len(backup.Users))
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	users, err := s.users.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}

	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:                u.ID,
			Username:          u.Username,
			PasswordHash:      u.PasswordHash,
			OAuthProvider:     u.OAuthProvider,
			OAuthSubject:      u.OAuthSubject,
			XP:                u.XP,
			Level:             u.Level,
			UnspentStatPoints: u.UnspentStatPoints,
			Streak:            u.Streak,
			LastActivityDate:  u.LastActivityDate,
			LastResetDate:     u.LastResetDate,
			CreatedAt:         u.CreatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportAttributes(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT user_id, strength, agility, stamina, endurance, intelligence,
			base_strength, base_agility, base_stamina, base_endurance, base_intelligence, current_rank
		FROM core_attributes ORDER BY user_id`)
	if err != nil {
		return fmt.Errorf("failed to export attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a AttributeBackup
		if err := rows.Scan(&a.UserID, &a.Strength, &a.Agility, &a.Stamina, &a.Endurance, &a.Intelligence,
			&a.BaseStrength, &a.BaseAgility, &a.BaseStamina, &a.BaseEndurance, &a.BaseIntelligence, &a.Rank); err != nil {
			return fmt.Errorf("failed to scan attributes: %w", err)
		}
		backup.Attributes = append(backup.Attributes, a)
	}
	return rows.Err()
}

func (s *BackupService) exportWorkouts(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT user_id, name, sets, reps, duration, intensity, logged_only, xp_gained, created_at
		FROM workouts ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export workouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w WorkoutBackup
		if err := rows.Scan(&w.UserID, &w.Name, &w.Sets, &w.Reps, &w.Duration, &w.Intensity,
			&w.LoggedOnly, &w.XPGained, &w.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan workout: %w", err)
		}
		backup.Workouts = append(backup.Workouts, w)
	}
	return rows.Err()
}

func (s *BackupService) exportMeals(backup *BackupData) error {
	rows, err := s.db.Query("SELECT user_id, name, calories, created_at FROM meals ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to export meals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m MealBackup
		if err := rows.Scan(&m.UserID, &m.Name, &m.Calories, &m.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan meal: %w", err)
		}
		backup.Meals = append(backup.Meals, m)
	}
	return rows.Err()
}

func (s *BackupService) exportQuests(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT user_id, title, description, base_reps, base_duration, quest_date, completed, completed_at, quote
		FROM quests ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export quests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q QuestBackup
		if err := rows.Scan(&q.UserID, &q.Title, &q.Description, &q.BaseReps, &q.BaseDuration,
			&q.QuestDate, &q.Completed, &q.CompletedAt, &q.Quote); err != nil {
			return fmt.Errorf("failed to scan quest: %w", err)
		}
		backup.Quests = append(backup.Quests, q)
	}
	return rows.Err()
}

func (s *BackupService) exportChallenges(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT user_id, category, difficulty, intensity, xp_gained, completed_at
		FROM challenge_completions ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to export challenges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c ChallengeBackup
		if err := rows.Scan(&c.UserID, &c.Category, &c.Difficulty, &c.Intensity, &c.XPGained, &c.CompletedAt); err != nil {
			return fmt.Errorf("failed to scan challenge: %w", err)
		}
		backup.Challenges = append(backup.Challenges, c)
	}
	return rows.Err()
}

func (s *BackupService) exportUnlocks(backup *BackupData) error {
	rows, err := s.db.Query("SELECT user_id, kind, unlock_key, name, earned_at FROM unlocks ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to export unlocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u UnlockBackup
		if err := rows.Scan(&u.UserID, &u.Kind, &u.Key, &u.Name, &u.EarnedAt); err != nil {
			return fmt.Errorf("failed to scan unlock: %w", err)
		}
		backup.Unlocks = append(backup.Unlocks, u)
	}
	return rows.Err()
}

func (s *BackupService) exportMessages(backup *BackupData) error {
	rows, err := s.db.Query("SELECT sender_id, sender_name, content, created_at FROM messages ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to export messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m MessageBackup
		if err := rows.Scan(&m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan message: %w", err)
		}
		backup.Messages = append(backup.Messages, m)
	}
	return rows.Err()
}
