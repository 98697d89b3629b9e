package models

import (
	"time"

	"arisefit/internal/progression"
)

// AttributeSet holds a user's five core attributes, the base snapshot
// captured at awakening time (the reset floor) and the current rank.
type AttributeSet struct {
	ID     int64
	UserID int64

	Strength     int
	Agility      int
	Stamina      int
	Endurance    int
	Intelligence int

	BaseStrength     int
	BaseAgility      int
	BaseStamina      int
	BaseEndurance    int
	BaseIntelligence int

	Rank      progression.Rank
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Get returns the current value of the named attribute.
func (a *AttributeSet) Get(name string) int {
	switch name {
	case progression.AttrStrength:
		return a.Strength
	case progression.AttrAgility:
		return a.Agility
	case progression.AttrStamina:
		return a.Stamina
	case progression.AttrEndurance:
		return a.Endurance
	case progression.AttrIntelligence:
		return a.Intelligence
	}
	return 0
}

// Set assigns the current value of the named attribute.
func (a *AttributeSet) Set(name string, value int) {
	switch name {
	case progression.AttrStrength:
		a.Strength = value
	case progression.AttrAgility:
		a.Agility = value
	case progression.AttrStamina:
		a.Stamina = value
	case progression.AttrEndurance:
		a.Endurance = value
	case progression.AttrIntelligence:
		a.Intelligence = value
	}
}

// Base returns the base (awakening) value of the named attribute.
func (a *AttributeSet) Base(name string) int {
	switch name {
	case progression.AttrStrength:
		return a.BaseStrength
	case progression.AttrAgility:
		return a.BaseAgility
	case progression.AttrStamina:
		return a.BaseStamina
	case progression.AttrEndurance:
		return a.BaseEndurance
	case progression.AttrIntelligence:
		return a.BaseIntelligence
	}
	return 0
}

// Total sums the five current attribute values.
func (a *AttributeSet) Total() int {
	return a.Strength + a.Agility + a.Stamina + a.Endurance + a.Intelligence
}

// BaseTotal sums the five base attribute values.
func (a *AttributeSet) BaseTotal() int {
	return a.BaseStrength + a.BaseAgility + a.BaseStamina + a.BaseEndurance + a.BaseIntelligence
}
