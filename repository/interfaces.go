package repository

import (
	"context"
	"defects-register/models"
	"time"
)

// DefectRepositoryInterface defines the contract for defect persistence
type DefectRepositoryInterface interface {
	CreateDefect(ctx context.Context, defect *models.DefectRecord) (*models.DefectRecord, error)
	GetDefectByID(ctx context.Context, id string) (*models.DefectRecord, error)
	UpdateDefect(ctx context.Context, defect *models.DefectRecord) (*models.DefectRecord, error)
	SoftDeleteDefect(ctx context.Context, id, deletedBy string, deletedAt time.Time) error
	GetDefectsByVessels(ctx context.Context, vesselIDs []string) ([]models.DefectRecord, error)
}

// VesselRepositoryInterface defines the contract for the user to vessel assignment lookup
type VesselRepositoryInterface interface {
	GetAssignments(ctx context.Context, userID string) ([]models.UserVessel, error)
	AssignVessel(ctx context.Context, assignment *models.UserVessel) error
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetDefectRepository() DefectRepositoryInterface
	GetVesselRepository() VesselRepositoryInterface
	GetUserRepository() UserRepositoryInterface
}
