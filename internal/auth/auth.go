package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/trocatudo/trocatudo/internal/db"
	"github.com/trocatudo/trocatudo/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles user registration, login and token verification
type AuthService struct {
	DB     *db.DB
	secret []byte
}

// NewAuthService creates a new auth service signing tokens with secret
func NewAuthService(db *db.DB, secret []byte) *AuthService {
	return &AuthService{DB: db, secret: secret}
}

// Register creates a new user with a hashed password. The role defaults to
// "user" when empty.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	// Validate input
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("name too long (max 100 characters)")
	}
	if len(password) > 100 {
		return nil, fmt.Errorf("password too long (max 100 characters)")
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleModerator && role != models.RoleAdmin {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	existing, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.DB.CreateUser(ctx, name, email, string(hashedPassword), role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and generates a JWT carrying the user's identity
// and role
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, user, nil
}

// GetUserFromToken extracts the user ID and role from a JWT
func (s *AuthService) GetUserFromToken(tokenString string) (int, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	return int(userID), role, nil
}
