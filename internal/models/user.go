package models

import "time"

// ResetCooldown is the minimum time between attribute resets.
const ResetCooldown = 7 * 24 * time.Hour

// User represents a hunter account along with its progression counters.
// XP holds the remainder toward the current level, not a lifetime total.
type User struct {
	ID                int64
	Username          string
	PasswordHash      string
	OAuthProvider     string
	OAuthSubject      string
	XP                int
	Level             int
	UnspentStatPoints int
	Streak            int
	LastActivityDate  string // YYYY-MM-DD of the last streak-counting activity
	LastResetDate     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CanReset reports whether the attribute reset cooldown has elapsed at the
// given time. A user who never reset has no cooldown.
func (u *User) CanReset(now time.Time) bool {
	if u.LastResetDate == nil {
		return true
	}
	return !now.Before(u.LastResetDate.Add(ResetCooldown))
}

// ResetDaysRemaining returns how many whole days remain on the cooldown,
// rounded up, or 0 when a reset is allowed.
func (u *User) ResetDaysRemaining(now time.Time) int {
	if u.LastResetDate == nil {
		return 0
	}
	remaining := u.LastResetDate.Add(ResetCooldown).Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}
