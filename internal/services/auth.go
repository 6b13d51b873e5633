package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sagar-1103/blush-build/internal/models"
	"github.com/Sagar-1103/blush-build/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 6
	bcryptCost     = 12

	// TokenMaxAge is how long a session token and its cookie stay valid.
	TokenMaxAge = 30 * 24 * time.Hour
)

// UserStore is the persistence surface AuthService needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// AuthService handles signup, login and session tokens
type AuthService struct {
	users     UserStore
	jwtSecret string
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// NormalizeUsername lower-cases and trims a username; usernames are stored
// and compared in this form only.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Signup registers a new user with a hashed password
func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = NormalizeUsername(username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return nil, fmt.Errorf("username must be between %d and %d characters: %w",
			usernameMinLen, usernameMaxLen, ErrValidation)
	}
	if len(password) < passwordMinLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w",
			passwordMinLen, ErrValidation)
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username already taken: %w", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint is the backstop for the existence check above.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("username already taken: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords produce
// the same error so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	user, err := s.users.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", ErrAuthentication)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid username or password: %w", ErrAuthentication)
	}

	return user, nil
}

// CurrentUser resolves a session's user id to the account
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("session user no longer exists: %w", ErrAuthentication)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GenerateJWT generates a session token for a user
func (s *AuthService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenMaxAge).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a session token and returns the user ID
func (s *AuthService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
