package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"arisefit/internal/models"
	"arisefit/internal/repository"
	"arisefit/internal/security"
	"arisefit/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthService handles registration, login and OAuth sign-in. Successful
// authentication yields a signed bearer token.
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *security.TokenIssuer
	google   *oauth2.Config
}

// NewAuthService creates a new auth service. googleCfg may be nil when OAuth
// sign-in is not configured.
func NewAuthService(userRepo *repository.UserRepository, tokens *security.TokenIssuer, googleCfg *oauth2.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		google:   googleCfg,
	}
}

// NewGoogleOAuthConfig builds the Google sign-in config, or nil when the
// client ID is unset.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	if clientID == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// Register creates a new account and returns it with a fresh token.
func (s *AuthService) Register(username, password string) (*models.User, string, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(username, passwordHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Mint(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and mints a token.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// VerifyToken validates a bearer token and returns the user it belongs to.
func (s *AuthService) VerifyToken(tokenString string) (*models.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, security.ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}

	return user, nil
}

// DeleteAccount removes an account. The schema cascades the delete to the
// account's attributes, activity logs and unlocks.
func (s *AuthService) DeleteAccount(userID int64) error {
	return s.userRepo.DeleteUser(userID)
}

// GoogleEnabled reports whether Google sign-in is configured.
func (s *AuthService) GoogleEnabled() bool {
	return s.google != nil
}

// GoogleLoginURL returns the consent page URL for the given state token.
func (s *AuthService) GoogleLoginURL(state string) string {
	if s.google == nil {
		return ""
	}
	return s.google.AuthCodeURL(state)
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleCallback exchanges the OAuth code, resolves or creates the matching
// account and mints a token for it.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*models.User, string, error) {
	if s.google == nil {
		return nil, "", errors.New("google sign-in is not configured")
	}

	oauthToken, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	resp, err := s.google.Client(ctx, oauthToken).Get(googleUserInfoURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, "", fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, "", errors.New("oauth provider returned no subject")
	}

	user, err := s.userRepo.GetUserByOAuth("google", info.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup oauth user: %w", err)
	}

	if user == nil {
		username, err := s.pickUsername(info.Email, info.Name)
		if err != nil {
			return nil, "", err
		}

		// OAuth accounts never log in by password, but the column is NOT
		// NULL, so store an unguessable hash.
		randomHash, err := security.HashPassword(randomToken(16))
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate oauth password hash: %w", err)
		}

		user, err = s.userRepo.CreateUser(username, randomHash)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create oauth user: %w", err)
		}
		if err := s.userRepo.LinkOAuthProvider(user.ID, "google", info.ID); err != nil {
			return nil, "", fmt.Errorf("failed to link oauth provider: %w", err)
		}
	}

	token, err := s.tokens.Mint(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

var usernameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// pickUsername derives a free username from the OAuth profile, appending a
// random suffix on collision.
func (s *AuthService) pickUsername(email, name string) (string, error) {
	base := name
	if email != "" {
		base = strings.Split(email, "@")[0]
	}
	base = usernameSanitizer.ReplaceAllString(base, "")
	if len(base) > 16 {
		base = base[:16]
	}
	for len(base) < 4 {
		base += "0"
	}

	candidate := base
	for i := 0; i < 5; i++ {
		existing, err := s.userRepo.GetUserByUsername(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = base + randomToken(2)
	}

	return "", errors.New("failed to allocate a free username")
}

func randomToken(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable anyway.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
