package handlers

import (
	"net/http"

	"arisefit/internal/chat"
	"arisefit/internal/repository"
	"arisefit/internal/security"
	"arisefit/internal/service"
)

// Services bundles everything the HTTP layer needs.
type Services struct {
	Auth        *service.AuthService
	Progression *service.ProgressionService
	Activity    *service.ActivityService
	Leaderboard *service.LeaderboardService
	Messages    *repository.MessageRepository
	Hub         *chat.Hub
	Limiter     *security.RateLimiter
}

// NewRouter builds the full route table with logging and rate limiting
// applied to everything.
func NewRouter(s Services) http.Handler {
	mux := http.NewServeMux()

	authHandler := NewAuthHandler(s.Auth)
	progressionHandler := NewProgressionHandler(s.Progression)
	activityHandler := NewActivityHandler(s.Activity)
	socialHandler := NewSocialHandler(s.Leaderboard, s.Messages, s.Hub)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/google", authHandler.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)

	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return RequireAuth(s.Auth, next)
	}

	mux.HandleFunc("GET /api/profile", auth(progressionHandler.Profile))
	mux.HandleFunc("GET /api/attributes", auth(progressionHandler.GetAttributes))
	mux.HandleFunc("POST /api/attributes/initialize", auth(progressionHandler.Initialize))
	mux.HandleFunc("POST /api/attributes/allocate", auth(progressionHandler.Allocate))
	mux.HandleFunc("POST /api/attributes/reset", auth(progressionHandler.Reset))
	mux.HandleFunc("GET /api/unlocks", auth(progressionHandler.Unlocks))
	mux.HandleFunc("POST /api/unlocks/evaluate", auth(progressionHandler.EvaluateUnlocks))
	mux.HandleFunc("DELETE /api/profile", auth(authHandler.DeleteAccount))

	mux.HandleFunc("POST /api/workouts", auth(activityHandler.CreateWorkout))
	mux.HandleFunc("GET /api/workouts", auth(activityHandler.ListWorkouts))
	mux.HandleFunc("POST /api/meals", auth(activityHandler.CreateMeal))
	mux.HandleFunc("GET /api/meals", auth(activityHandler.ListMeals))
	mux.HandleFunc("GET /api/quests/today", auth(activityHandler.TodayQuest))
	mux.HandleFunc("POST /api/quests/{id}/complete", auth(activityHandler.CompleteQuest))
	mux.HandleFunc("POST /api/challenges/complete", auth(activityHandler.CompleteChallenge))
	mux.HandleFunc("GET /api/challenges", auth(activityHandler.ListChallenges))

	mux.HandleFunc("GET /api/leaderboard", socialHandler.Leaderboard)
	mux.HandleFunc("GET /api/messages", auth(socialHandler.Messages))
	mux.HandleFunc("GET /api/ws", auth(socialHandler.Websocket))

	return Logging(RateLimit(s.Limiter, mux))
}
