package handlers

import (
	"net/http"

	"arisefit/internal/models"
	"arisefit/internal/progression"
	"arisefit/internal/service"
)

// ProgressionHandler serves the profile, attribute and unlock endpoints.
type ProgressionHandler struct {
	progression *service.ProgressionService
}

// NewProgressionHandler creates a new progression handler.
func NewProgressionHandler(prog *service.ProgressionService) *ProgressionHandler {
	return &ProgressionHandler{progression: prog}
}

type attributeValues struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Stamina      int `json:"stamina"`
	Endurance    int `json:"endurance"`
	Intelligence int `json:"intelligence"`
}

func currentValues(a *models.AttributeSet) attributeValues {
	return attributeValues{
		Strength:     a.Strength,
		Agility:      a.Agility,
		Stamina:      a.Stamina,
		Endurance:    a.Endurance,
		Intelligence: a.Intelligence,
	}
}

func baseValues(a *models.AttributeSet) attributeValues {
	return attributeValues{
		Strength:     a.BaseStrength,
		Agility:      a.BaseAgility,
		Stamina:      a.BaseStamina,
		Endurance:    a.BaseEndurance,
		Intelligence: a.BaseIntelligence,
	}
}

type profileResponse struct {
	UserID            int64            `json:"userId"`
	Username          string           `json:"username"`
	Level             int              `json:"level"`
	XP                int              `json:"xp"`
	XPToNextLevel     int              `json:"xpToNextLevel"`
	UnspentStatPoints int              `json:"unspentStatPoints"`
	Streak            int              `json:"streak"`
	Rank              progression.Rank `json:"rank"`
	Title             string           `json:"title"`
	Attributes        attributeValues  `json:"attributes"`
	BaseAttributes    attributeValues  `json:"baseAttributes"`
}

// Profile handles GET /api/profile.
func (h *ProgressionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	attrs, err := h.progression.GetAttributes(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	_, title, err := h.progression.GetUnlocks(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profileResponse{
		UserID:            user.ID,
		Username:          user.Username,
		Level:             user.Level,
		XP:                user.XP,
		XPToNextLevel:     progression.XPRequiredForLevel(user.Level) - user.XP,
		UnspentStatPoints: user.UnspentStatPoints,
		Streak:            user.Streak,
		Rank:              attrs.Rank,
		Title:             title,
		Attributes:        currentValues(attrs),
		BaseAttributes:    baseValues(attrs),
	})
}

// GetAttributes handles GET /api/attributes.
func (h *ProgressionHandler) GetAttributes(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	attrs, err := h.progression.GetAttributes(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"attributes":     currentValues(attrs),
		"baseAttributes": baseValues(attrs),
		"rank":           attrs.Rank,
	})
}

type initializeRequest struct {
	Values  map[string]int `json:"values"`
	Answers []struct {
		Attribute string `json:"attribute"`
		Value     int    `json:"value"`
	} `json:"answers"`
}

// Initialize handles POST /api/attributes/initialize. The awakening result
// can arrive pre-scored as values or as raw questionnaire answers.
func (h *ProgressionHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req initializeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var attrs *models.AttributeSet
	var err error
	if len(req.Answers) > 0 {
		answers := make([]progression.AssessmentAnswer, 0, len(req.Answers))
		for _, a := range req.Answers {
			answers = append(answers, progression.AssessmentAnswer{Attribute: a.Attribute, Value: a.Value})
		}
		attrs, err = h.progression.InitializeFromAssessment(user.ID, answers)
	} else {
		attrs, err = h.progression.InitializeAttributes(user.ID, req.Values)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"attributes":     currentValues(attrs),
		"baseAttributes": baseValues(attrs),
	})
}

type allocateRequest struct {
	Attribute string `json:"attribute"`
	Points    int    `json:"points"`
}

// Allocate handles POST /api/attributes/allocate.
func (h *ProgressionHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	req := allocateRequest{Points: 1}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.progression.AllocateStatPoints(user.ID, req.Attribute, req.Points)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Reset handles POST /api/attributes/reset.
func (h *ProgressionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	result, err := h.progression.ResetAttributes(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pointsRefunded": result.PointsRefunded,
		"unspentPoints":  result.UnspentPoints,
		"nextResetDate":  result.NextResetDate.Format("2006-01-02T15:04:05Z07:00"),
		"attributes":     currentValues(result.Attributes),
	})
}

// EvaluateUnlocks handles POST /api/unlocks/evaluate. Re-checks the full
// catalog for anything earned through a side channel, such as a streak that
// advanced without an XP grant.
func (h *ProgressionHandler) EvaluateUnlocks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	newBadges, newTitle, err := h.progression.EvaluateUnlocks(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"newBadges": newBadges,
		"newTitle":  newTitle,
	})
}

type unlockView struct {
	Kind     string `json:"kind"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	EarnedAt string `json:"earnedAt"`
}

// Unlocks handles GET /api/unlocks.
func (h *ProgressionHandler) Unlocks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	unlocks, title, err := h.progression.GetUnlocks(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	views := make([]unlockView, 0, len(unlocks))
	for _, u := range unlocks {
		views = append(views, unlockView{
			Kind:     u.Kind,
			Key:      u.Key,
			Name:     u.Name,
			EarnedAt: u.EarnedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"unlocks": views,
		"title":   title,
	})
}
