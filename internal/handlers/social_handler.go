package handlers

import (
	"net/http"

	"arisefit/internal/chat"
	"arisefit/internal/repository"
	"arisefit/internal/service"
)

// SocialHandler serves the leaderboard, chat history and the websocket
// endpoint.
type SocialHandler struct {
	leaderboard *service.LeaderboardService
	messages    *repository.MessageRepository
	hub         *chat.Hub
}

// NewSocialHandler creates a new social handler.
func NewSocialHandler(leaderboard *service.LeaderboardService, messages *repository.MessageRepository, hub *chat.Hub) *SocialHandler {
	return &SocialHandler{leaderboard: leaderboard, messages: messages, hub: hub}
}

// Leaderboard handles GET /api/leaderboard.
func (h *SocialHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Top(r.Context(), limitParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// Messages handles GET /api/messages: the recent chat backlog.
func (h *SocialHandler) Messages(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r)
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	messages, err := h.messages.GetRecentMessages(limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// Websocket handles GET /api/ws: live chat and progression events.
func (h *SocialHandler) Websocket(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	chat.ServeWS(h.hub, w, r, user.ID, user.Username)
}
