package handlers

import (
	"net/http"
	"strconv"

	"arisefit/internal/service"
)

// ActivityHandler serves workout, meal, quest and challenge endpoints.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

type workoutRequest struct {
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	Reps       int    `json:"reps"`
	Duration   int    `json:"duration"`
	Intensity  string `json:"intensity"`
	LoggedOnly bool   `json:"loggedOnly"`
}

// CreateWorkout handles POST /api/workouts.
func (h *ActivityHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req workoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	workout, grant, err := h.activity.LogWorkout(user.ID, req.Name, req.Sets, req.Reps, req.Duration, req.Intensity, req.LoggedOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"workout": workout,
		"grant":   grant,
	})
}

// ListWorkouts handles GET /api/workouts.
func (h *ActivityHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	workouts, err := h.activity.GetWorkouts(user.ID, limitParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"workouts": workouts})
}

type mealRequest struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// CreateMeal handles POST /api/meals.
func (h *ActivityHandler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req mealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	meal, grant, err := h.activity.LogMeal(user.ID, req.Name, req.Calories)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"meal":  meal,
		"grant": grant,
	})
}

// ListMeals handles GET /api/meals.
func (h *ActivityHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	meals, err := h.activity.GetMeals(user.ID, limitParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"meals": meals})
}

// TodayQuest handles GET /api/quests/today.
func (h *ActivityHandler) TodayQuest(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	quest, restDay, err := h.activity.GetTodayQuest(user.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quest":   quest,
		"restDay": restDay,
	})
}

// CompleteQuest handles POST /api/quests/{id}/complete.
func (h *ActivityHandler) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	questID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quest id"})
		return
	}

	grant, err := h.activity.CompleteQuest(user.ID, questID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"grant": grant})
}

type challengeRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Intensity  string `json:"intensity"`
}

// CompleteChallenge handles POST /api/challenges/complete.
func (h *ActivityHandler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req challengeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	completion, grant, err := h.activity.CompleteChallenge(user.ID, req.Category, req.Difficulty, req.Intensity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"challenge": completion,
		"grant":     grant,
	})
}

// ListChallenges handles GET /api/challenges.
func (h *ActivityHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	completions, err := h.activity.GetChallengeCompletions(user.ID, limitParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"challenges": completions})
}
