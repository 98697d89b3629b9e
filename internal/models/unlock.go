package models

import "time"

// Unlock kinds.
const (
	UnlockBadge = "badge"
	UnlockTitle = "title"
)

// Unlock is a persisted badge or title a user has earned. The evaluator
// returns the complete current-eligibility set; rows here record what was
// already awarded so newly crossed thresholds can be detected by diffing.
type Unlock struct {
	ID       int64
	UserID   int64
	Kind     string
	Key      string
	Name     string
	EarnedAt time.Time
}

// Message is one global chat message.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
