package repository

import (
	"context"
	"defects-register/dal"
	"defects-register/models"
	"defects-register/utils"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"strings"
	"time"
)

const emailIndex = "email-index"

type UserRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewUserRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *UserRepository) table() string {
	return r.config.TableName("users")
}

// CreateUser stores a new user with a generated id
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	r.logger.Infof("Creating user: %s", user.Email)

	now := time.Now().UTC()
	user.ID = utils.GenerateUUID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if err := r.db.PutItem(ctx, r.table(), user); err != nil {
		r.logger.Errorf("Failed to create user: %v", err)
		return nil, err
	}

	r.logger.Infof("User created successfully: %s", user.ID)
	return user, nil
}

// GetUserByEmail looks a user up through the email index
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	var users []models.User
	err := r.db.QueryByIndex(ctx, models.QueryConfig{
		TableName: r.table(),
		IndexName: emailIndex,
		KeyName:   "email",
		KeyValue:  email,
		KeyType:   models.StringType,
	}, &users)
	if err != nil {
		r.logger.Errorf("Failed to get user by email: %v", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, models.ErrUserNotFound
	}
	return &users[0], nil
}

// GetUserByID looks a user up by primary key
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.table(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &user)
	if err != nil {
		r.logger.Errorf("Failed to get user %s: %v", id, err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

// TouchLastLogin records a successful login
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.UpdateItem(ctx, r.table(), "id", id, map[string]interface{}{
		"last_login_at": at.UTC(),
		"updated_at":    at.UTC(),
	})
}
