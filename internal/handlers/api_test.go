package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"arisefit/internal/chat"
	"arisefit/internal/database"
	"arisefit/internal/progression"
	"arisefit/internal/repository"
	"arisefit/internal/security"
	"arisefit/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	unlockRepo := repository.NewUnlockRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	hub := chat.NewHub(messageRepo)
	go hub.Run()
	t.Cleanup(hub.Stop)

	leaderboard := service.NewLeaderboardService("", "", userRepo)
	progressionService := service.NewProgressionService(db, userRepo, attributeRepo, activityRepo, unlockRepo, nil)
	activityService := service.NewActivityService(userRepo, activityRepo, progressionService, progression.DefaultRewardPolicy())

	tokens := security.NewTokenIssuer("test-secret", "arisefit", time.Hour)
	authService := service.NewAuthService(userRepo, tokens, nil)

	router := NewRouter(Services{
		Auth:        authService,
		Progression: progressionService,
		Activity:    activityService,
		Leaderboard: leaderboard,
		Messages:    messageRepo,
		Hub:         hub,
		Limiter:     security.NewRateLimiter(1000, time.Minute),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestAPIFlow(t *testing.T) {
	server := newTestServer(t)

	// Register.
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]string{
		"username": "shadow_monarch",
		"password": "Arise!123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201 (%v)", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}

	// Duplicate username.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]string{
		"username": "shadow_monarch",
		"password": "Arise!123",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// Wrong password.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"username": "shadow_monarch",
		"password": "Wrong!123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}

	// Profile requires auth.
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/profile", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated profile status = %d, want 401", resp.StatusCode)
	}

	// Fresh profile.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d, want 200", resp.StatusCode)
	}
	if body["level"].(float64) != 1 {
		t.Errorf("level = %v, want 1", body["level"])
	}
	if body["title"] != "Newly Awakened" {
		t.Errorf("title = %v, want Newly Awakened", body["title"])
	}
	if body["rank"] != "D" {
		t.Errorf("rank = %v, want D", body["rank"])
	}

	// Awakening assessment.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/attributes/initialize", token, map[string]interface{}{
		"values": map[string]int{"strength": 3, "agility": 2, "stamina": 4, "endurance": 2, "intelligence": 5},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("initialize status = %d, want 200", resp.StatusCode)
	}

	// Log a workout; XP flows through to the profile.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/workouts", token, map[string]interface{}{
		"name": "Push Day", "sets": 3, "reps": 10,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("workout status = %d, want 201 (%v)", resp.StatusCode, body)
	}
	grant, ok := body["grant"].(map[string]interface{})
	if !ok || grant["xpGained"] != float64(26) {
		t.Errorf("grant = %v, want xpGained 26", body["grant"])
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d, want 200", resp.StatusCode)
	}
	if body["xp"].(float64) != 26 {
		t.Errorf("xp after workout = %v, want 26", body["xp"])
	}

	// No stat points yet, so allocation conflicts.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/attributes/allocate", token, map[string]interface{}{
		"attribute": "strength", "points": 1,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("allocate without points status = %d, want 409", resp.StatusCode)
	}

	// Reset succeeds and reports when the next one is allowed.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/attributes/reset", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d, want 200 (%v)", resp.StatusCode, body)
	}
	if next, _ := body["nextResetDate"].(string); next == "" {
		t.Error("reset response missing nextResetDate")
	}

	// On-demand unlock re-evaluation is idempotent.
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/unlocks/evaluate", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("evaluate unlocks status = %d, want 200", resp.StatusCode)
	}

	// Leaderboard is public and includes the new hunter via SQL fallback.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/leaderboard", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard status = %d, want 200", resp.StatusCode)
	}
	entries, _ := body["leaderboard"].([]interface{})
	if len(entries) != 1 {
		t.Errorf("leaderboard entries = %d, want 1", len(entries))
	}

	// Account deletion invalidates the credentials.
	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]string{
		"username": "temp_hunter",
		"password": "Arise!123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201 (%v)", resp.StatusCode, body)
	}
	tempToken, _ := body["token"].(string)

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/profile", tempToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete account status = %d, want 204", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"username": "temp_hunter",
		"password": "Arise!123",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login after deletion status = %d, want 401", resp.StatusCode)
	}
}
