package progression

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount rejects non-positive XP grants before any state changes.
	ErrInvalidAmount = errors.New("xp amount must be positive")

	// ErrInvalidAttribute rejects attribute names outside the five core attributes.
	ErrInvalidAttribute = errors.New("unknown attribute")

	// ErrValidation rejects malformed or out-of-range input (e.g. level < 1).
	ErrValidation = errors.New("invalid input")

	// ErrInsufficientPoints rejects a spend larger than the unspent balance.
	ErrInsufficientPoints = errors.New("not enough unspent stat points")

	// ErrHardCapExceeded rejects an allocation that would push an attribute past the hard cap.
	ErrHardCapExceeded = errors.New("attribute hard cap exceeded")

	// ErrUserNotFound means the referenced user has no progression record at all.
	// A missing attribute row for an existing user is NOT this error; that case
	// is handled by lazy creation.
	ErrUserNotFound = errors.New("user not found")
)

// CooldownError rejects an attribute reset attempted before the 7-day
// cooldown has elapsed. DaysRemaining is intended for user messaging.
type CooldownError struct {
	DaysRemaining int
}

func (e *CooldownError) Error() string {
	if e.DaysRemaining == 1 {
		return "attribute reset available in 1 day"
	}
	return fmt.Sprintf("attribute reset available in %d days", e.DaysRemaining)
}
