package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/J5Chen/Climate-Stories-Map/internal/models"
	"github.com/J5Chen/Climate-Stories-Map/internal/utils"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
}

// AuthService creates accounts and verifies credentials.
type AuthService struct {
	users UserStore
}

// NewAuthService returns an auth service backed by the given user store.
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// ValidatePasswordComplexity enforces the account password rules: at least
// 8 characters with an uppercase letter, a lowercase letter, a digit and a
// special character.
func ValidatePasswordComplexity(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one number")
	case !hasSpecial:
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}

// CreateUser stores a new account with a bcrypt-hashed password. The call
// is rejected when the password fails any complexity rule or the username
// is already taken.
func (s *AuthService) CreateUser(ctx context.Context, username, password, role string) error {
	if err := ValidatePasswordComplexity(password); err != nil {
		return err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("username %q is already taken", username)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.users.Insert(ctx, &models.User{
		Username: username,
		Password: hash,
		Role:     role,
	})
	return err
}

// VerifyUser checks a username/password pair against the stored hash. A
// mismatch or unknown username returns (nil, nil), never an error.
func (s *AuthService) VerifyUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.Password) {
		return nil, nil
	}
	return user, nil
}
