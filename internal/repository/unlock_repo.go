package repository

import (
	"fmt"

	"arisefit/internal/database"
	"arisefit/internal/models"
)

// UnlockRepository persists earned badges and titles.
type UnlockRepository struct {
	db database.DBTX
}

// NewUnlockRepository creates a new unlock repository.
func NewUnlockRepository(db database.DBTX) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UnlockRepository) WithTx(tx *database.Tx) *UnlockRepository {
	return &UnlockRepository{db: tx}
}

// GetUnlocks returns everything the user has earned, oldest first.
func (r *UnlockRepository) GetUnlocks(userID int64) ([]models.Unlock, error) {
	query := `
		SELECT id, user_id, kind, unlock_key, name, earned_at
		FROM unlocks
		WHERE user_id = ?
		ORDER BY earned_at ASC, id ASC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []models.Unlock
	for rows.Next() {
		var u models.Unlock
		if err := rows.Scan(&u.ID, &u.UserID, &u.Kind, &u.Key, &u.Name, &u.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		unlocks = append(unlocks, u)
	}

	return unlocks, nil
}

// GetEarnedKeys returns the set of already-awarded keys for one unlock kind.
// The unlock diff is computed against this set.
func (r *UnlockRepository) GetEarnedKeys(userID int64, kind string) (map[string]bool, error) {
	query := "SELECT unlock_key FROM unlocks WHERE user_id = ? AND kind = ?"
	rows, err := r.db.Query(query, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query earned keys: %w", err)
	}
	defer rows.Close()

	earned := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan earned key: %w", err)
		}
		earned[key] = true
	}

	return earned, nil
}

// Insert records a newly earned badge or title.
func (r *UnlockRepository) Insert(userID int64, kind, key, name string) error {
	query := `
		INSERT INTO unlocks (user_id, kind, unlock_key, name)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, userID, kind, key, name); err != nil {
		return fmt.Errorf("failed to insert unlock: %w", err)
	}
	return nil
}
