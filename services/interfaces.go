package services

import (
	"context"
	"defects-register/models"
	"time"
)

// DefectServiceInterface defines the contract for the defect lifecycle
type DefectServiceInterface interface {
	NewDraft(vessels []models.Vessel, now time.Time) (*models.DefectRecord, error)
	Draft(ctx context.Context, userID string) (*models.DefectRecord, error)
	Save(ctx context.Context, userID string, req *models.SaveDefectRequest) (*models.DefectRecord, error)
	SoftDelete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]models.DefectRecord, error)
}

// VesselServiceInterface defines the contract for vessel assignment lookups
type VesselServiceInterface interface {
	Assigned(ctx context.Context, userID string) ([]models.Vessel, error)
	Names(ctx context.Context, userID string) (map[string]string, error)
}

// ReportServiceInterface defines the contract for statistics and exports
type ReportServiceInterface interface {
	ExportCSV(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error)
	ExportPDF(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error)
	Stats(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time, topN int) (*models.DefectStats, error)
}

// AuthServiceInterface defines the contract for login and registration
type AuthServiceInterface interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, user *models.User, password string) (*models.User, error)
}

// InfrastructureServiceInterface defines the contract for infrastructure service
type InfrastructureServiceInterface interface {
	GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error)
	RestartWorker(ctx context.Context, force bool) (*models.ProvisioningRunResult, error)
	IsWorkerHealthy() (bool, string, error)
	AutoRestartIfNeeded(ctx context.Context) (*models.ProvisioningRunResult, error)
}

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

// ProvisioningTrigger starts a table provisioning run on demand
type ProvisioningTrigger interface {
	RunNow(ctx context.Context) error
}

// ServiceContainer interface defines the main service container contract
type ServiceContainerInterface interface {
	GetDefectService() DefectServiceInterface
	GetVesselService() VesselServiceInterface
	GetReportService() ReportServiceInterface
	GetAuthService() AuthServiceInterface
	GetInfrastructureService() InfrastructureServiceInterface
}
