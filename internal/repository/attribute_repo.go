package repository

import (
	"database/sql"
	"fmt"

	"arisefit/internal/database"
	"arisefit/internal/models"
	"arisefit/internal/progression"
)

// AttributeRepository handles the core_attributes table. Rows are created
// lazily: reads of a missing row return nil, writes go through GetOrCreate.
type AttributeRepository struct {
	db database.DBTX
}

// NewAttributeRepository creates a new attribute repository.
func NewAttributeRepository(db database.DBTX) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *AttributeRepository) WithTx(tx *database.Tx) *AttributeRepository {
	return &AttributeRepository{db: tx}
}

const attributeColumns = `id, user_id,
		strength, agility, stamina, endurance, intelligence,
		base_strength, base_agility, base_stamina, base_endurance, base_intelligence,
		current_rank, created_at, updated_at`

func scanAttributes(row *sql.Row) (*models.AttributeSet, error) {
	attrs := &models.AttributeSet{}
	err := row.Scan(
		&attrs.ID,
		&attrs.UserID,
		&attrs.Strength,
		&attrs.Agility,
		&attrs.Stamina,
		&attrs.Endurance,
		&attrs.Intelligence,
		&attrs.BaseStrength,
		&attrs.BaseAgility,
		&attrs.BaseStamina,
		&attrs.BaseEndurance,
		&attrs.BaseIntelligence,
		&attrs.Rank,
		&attrs.CreatedAt,
		&attrs.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attributes: %w", err)
	}
	return attrs, nil
}

// GetByUserID retrieves a user's attribute row, or nil if none exists yet.
func (r *AttributeRepository) GetByUserID(userID int64) (*models.AttributeSet, error) {
	query := "SELECT " + attributeColumns + " FROM core_attributes WHERE user_id = ?"
	return scanAttributes(r.db.QueryRow(query, userID))
}

// GetOrCreate returns the user's attribute row, inserting an all-zero row
// first if the user has never been assessed. The new row carries the rank
// derived from the user's level, so an account whose progression row outlives
// its attribute row never comes back as rank D.
func (r *AttributeRepository) GetOrCreate(userID int64, level int) (*models.AttributeSet, error) {
	attrs, err := r.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if attrs != nil {
		return attrs, nil
	}

	query := `
		INSERT INTO core_attributes (user_id, current_rank)
		VALUES (?, ?)
	`
	if _, err := r.db.ExecReturningID(query, userID, string(progression.RankForLevel(level))); err != nil {
		return nil, fmt.Errorf("failed to create attributes: %w", err)
	}

	return r.GetByUserID(userID)
}

// UpdateCurrent persists the five current attribute values.
func (r *AttributeRepository) UpdateCurrent(attrs *models.AttributeSet) error {
	query := `
		UPDATE core_attributes
		SET strength = ?, agility = ?, stamina = ?, endurance = ?, intelligence = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query,
		attrs.Strength, attrs.Agility, attrs.Stamina, attrs.Endurance, attrs.Intelligence,
		attrs.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attributes: %w", err)
	}
	return nil
}

// UpdateAll persists both the current and base values. Used by awakening
// initialization and by reset, which rewrites current back to base.
func (r *AttributeRepository) UpdateAll(attrs *models.AttributeSet) error {
	query := `
		UPDATE core_attributes
		SET strength = ?, agility = ?, stamina = ?, endurance = ?, intelligence = ?,
		    base_strength = ?, base_agility = ?, base_stamina = ?, base_endurance = ?, base_intelligence = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query,
		attrs.Strength, attrs.Agility, attrs.Stamina, attrs.Endurance, attrs.Intelligence,
		attrs.BaseStrength, attrs.BaseAgility, attrs.BaseStamina, attrs.BaseEndurance, attrs.BaseIntelligence,
		attrs.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attributes: %w", err)
	}
	return nil
}

// UpdateRank stores the rank derived from the user's level.
func (r *AttributeRepository) UpdateRank(userID int64, rank progression.Rank) error {
	query := `
		UPDATE core_attributes
		SET current_rank = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query, string(rank), userID)
	if err != nil {
		return fmt.Errorf("failed to update rank: %w", err)
	}
	return nil
}
