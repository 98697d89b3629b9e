package repository

import (
	"database/sql"
	"fmt"
	"time"

	"arisefit/internal/database"
	"arisefit/internal/models"
)

// UserRepository handles database operations for hunter accounts and their
// progression counters. It is bound to a DBTX, so the same methods work on
// the shared pool or inside a transaction via WithTx.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *database.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

// CreateUser inserts a new account. New hunters start at level 1 with no XP.
func (r *UserRepository) CreateUser(username, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
	`
	id, err := r.db.ExecReturningID(query, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Level:        1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	return user, nil
}

const userColumns = `id, username, password_hash, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''),
		xp, level, unspent_stat_points, streak, last_activity_date, last_reset_date, created_at, updated_at`

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.XP,
		&user.Level,
		&user.UnspentStatPoints,
		&user.Streak,
		&user.LastActivityDate,
		&user.LastResetDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ?"
	return r.scanUser(r.db.QueryRow(query, username))
}

// GetUserByID retrieves a user by ID.
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return r.scanUser(r.db.QueryRow(query, id))
}

// GetUserByOAuth retrieves a user by OAuth provider and subject.
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE oauth_provider = ? AND oauth_subject = ?"
	return r.scanUser(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider links an existing account to an OAuth identity. Fails if
// another provider is already linked.
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		AND (oauth_provider IS NULL OR oauth_provider = '')
	`
	result, err := r.db.Exec(query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("oauth provider already linked")
	}

	return nil
}

// UpdateProgression persists the XP, level and unspent point counters after
// a progression mutation. Call inside the same transaction as the mutation.
func (r *UserRepository) UpdateProgression(userID int64, xp int64, level, unspentPoints int) error {
	query := `
		UPDATE users
		SET xp = ?, level = ?, unspent_stat_points = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, xp, level, unspentPoints, userID)
	if err != nil {
		return fmt.Errorf("failed to update progression: %w", err)
	}
	return nil
}

// UpdateStreak records the current streak and the activity date it was
// computed from.
func (r *UserRepository) UpdateStreak(userID int64, streak int, activityDate string) error {
	query := `
		UPDATE users
		SET streak = ?, last_activity_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, streak, activityDate, userID)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	return nil
}

// SetLastResetDate stamps the attribute reset cooldown.
func (r *UserRepository) SetLastResetDate(userID int64, at time.Time) error {
	query := `
		UPDATE users
		SET last_reset_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, at, userID)
	if err != nil {
		return fmt.Errorf("failed to set last reset date: %w", err)
	}
	return nil
}

// GetAllUsers retrieves all accounts, newest first.
func (r *UserRepository) GetAllUsers() ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.OAuthProvider,
			&user.OAuthSubject,
			&user.XP,
			&user.Level,
			&user.UnspentStatPoints,
			&user.Streak,
			&user.LastActivityDate,
			&user.LastResetDate,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// TopByLevel returns the highest-level hunters for the leaderboard fallback
// path, ordered by level then XP.
func (r *UserRepository) TopByLevel(limit int) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY level DESC, xp DESC LIMIT ?"
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.OAuthProvider,
			&user.OAuthSubject,
			&user.XP,
			&user.Level,
			&user.UnspentStatPoints,
			&user.Streak,
			&user.LastActivityDate,
			&user.LastResetDate,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// DeleteUser deletes an account and all associated data.
func (r *UserRepository) DeleteUser(id int64) error {
	query := "DELETE FROM users WHERE id = ?"
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
