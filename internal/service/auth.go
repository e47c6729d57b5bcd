package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/store"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

// UserStore is the persistence surface for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService handles registration, login, and token issuance.
type AuthService struct {
	store      UserStore
	jwtSecret  []byte
	expiration time.Duration
	logger     *logger.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(s UserStore, jwtSecret string, expiration time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		store:      s,
		jwtSecret:  []byte(jwtSecret),
		expiration: expiration,
		logger:     log,
	}
}

// Register creates a new account and returns a signed token.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("Email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Conflict("Username already taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Email, req.Username, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return nil, apperr.Conflict("Email or username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user,
	}, nil
}

// Login authenticates by email and password. The error message never reveals
// whether the email exists.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &model.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	}, nil
}

func (s *AuthService) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
