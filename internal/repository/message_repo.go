package repository

import (
	"fmt"

	"arisefit/internal/database"
	"arisefit/internal/models"
)

// MessageRepository persists global chat history.
type MessageRepository struct {
	db database.DBTX
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db database.DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateMessage stores a chat message.
func (r *MessageRepository) CreateMessage(m *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, sender_name, content)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, m.SenderID, m.SenderName, m.Content)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	m.ID = id
	return nil
}

// GetRecentMessages returns the most recent messages in chronological order.
func (r *MessageRepository) GetRecentMessages(limit int) ([]models.Message, error) {
	query := `
		SELECT id, sender_id, sender_name, content, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	// Reverse into chronological order for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
