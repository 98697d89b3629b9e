package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"arisefit/internal/progression"
	"arisefit/internal/security"
	"arisefit/internal/service"
	"arisefit/internal/validation"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

type errorResponse struct {
	Error         string `json:"error"`
	DaysRemaining int    `json:"daysRemaining,omitempty"`
}

// respondDomainError maps service and engine errors onto HTTP statuses. The
// error message itself is safe to show; internals are logged instead.
func respondDomainError(w http.ResponseWriter, err error) {
	var cooldown *progression.CooldownError
	if errors.As(err, &cooldown) {
		respondJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:         cooldown.Error(),
			DaysRemaining: cooldown.DaysRemaining,
		})
		return
	}

	var validationErr validation.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, progression.ErrValidation),
		errors.Is(err, progression.ErrInvalidAmount),
		errors.Is(err, progression.ErrInvalidAttribute):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, progression.ErrInsufficientPoints),
		errors.Is(err, progression.ErrHardCapExceeded),
		errors.Is(err, service.ErrUsernameTaken):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, progression.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, security.ErrInvalidToken):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
