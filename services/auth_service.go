package services

import (
	"context"
	"defects-register/models"
	"defects-register/repository"
	"defects-register/utils"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"time"
)

type AuthService struct {
	users  repository.UserRepositoryInterface
	tokens TokenIssuer
	config *models.Config
	logger logger.Logger
}

func NewAuthService(users repository.UserRepositoryInterface, tokens TokenIssuer, cfg *models.Config, logger logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		config: cfg,
		logger: logger,
	}
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warnf("Login attempt for unknown email %s", req.Email)
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warnf("Invalid password for user %s", user.ID)
		return nil, models.ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		s.logger.Warnf("Login refused for %s user %s", user.Status, user.ID)
		return nil, fmt.Errorf("account is %s: %w", user.Status, models.ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warnf("Failed to record login time for %s: %v", user.ID, err)
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Infof("User %s logged in", user.ID)
	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.JWTExpiresIn.Seconds()),
		User:        user,
	}, nil
}

// Register creates a user with a hashed password
func (s *AuthService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Message: "password must be at least 8"}
	}
	if _, err := s.users.GetUserByEmail(ctx, user.Email); err == nil {
		return nil, &ValidationError{Field: "email", Message: "email is already registered"}
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if user.Role == "" {
		user.Role = models.UserRoleCrew
	}
	return s.users.CreateUser(ctx, user)
}
