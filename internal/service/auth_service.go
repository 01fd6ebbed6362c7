package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
	"aptigenius-backend/utilities"
)

const minPasswordLength = 6

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is returned by every successful signup, login and refresh.
type AuthResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

// AuthService interface
type AuthService interface {
	Signup(in SignupInput) (*AuthResult, error)
	CreateAdmin(in SignupInput) (*model.User, error)
	Login(email, password string) (*AuthResult, error)
	Refresh(refreshToken string) (*AuthResult, error)
	Me(userID string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *utilities.TokenManager
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository, tokens *utilities.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

// Signup registers a student account and logs it in.
func (s *authService) Signup(in SignupInput) (*AuthResult, error) {
	user, err := s.register(in, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateAdmin registers an administrator. It is only reachable from the
// command line, never over HTTP.
func (s *authService) CreateAdmin(in SignupInput) (*model.User, error) {
	return s.register(in, model.RoleAdmin)
}

func (s *authService) register(in SignupInput, role model.Role) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, invalid("first name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, invalid("a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	_, err := s.userRepo.GetUserByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Password:  string(hash),
		Role:      role,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}
	return user, nil
}

// Login function to authenticate user
func (s *authService) Login(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByEmail(normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Refresh trades a refresh token for a new token pair. The account must
// still exist.
func (s *authService) Refresh(refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, true)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetUserByID(claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return s.issue(user)
}

func (s *authService) Me(userID string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *authService) issue(user *model.User) (*AuthResult, error) {
	access, refresh, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: access, RefreshToken: refresh, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
