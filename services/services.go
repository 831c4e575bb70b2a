package services

import (
	"defects-register/dal"
	"defects-register/models"
	"defects-register/repository"
	"defects-register/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	defectService         *DefectService
	vesselService         *VesselService
	reportService         *ReportService
	authService           *AuthService
	infrastructureService *InfrastructureService
}

// NewService creates a new service container with all dependencies injected.
// store and trigger are optional.
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	store dal.ObjectStoreInterface,
	tokens TokenIssuer,
	trigger ProvisioningTrigger,
	logger logger.Logger,
	config *models.Config,
) *Service {
	vessels := NewVesselService(repoContainer.GetVesselRepository(), logger)
	defects := NewDefectService(repoContainer.GetDefectRepository(), vessels, logger)

	return &Service{
		defectService:         defects,
		vesselService:         vessels,
		reportService:         NewReportService(defects, store, config, logger),
		authService:           NewAuthService(repoContainer.GetUserRepository(), tokens, config, logger),
		infrastructureService: NewInfrastructureService(trigger, logger, config),
	}
}

// GetDefectService returns the defect service interface
func (s *Service) GetDefectService() DefectServiceInterface {
	return s.defectService
}

// GetVesselService returns the vessel service interface
func (s *Service) GetVesselService() VesselServiceInterface {
	return s.vesselService
}

// GetReportService returns the report service interface
func (s *Service) GetReportService() ReportServiceInterface {
	return s.reportService
}

// GetAuthService returns the auth service interface
func (s *Service) GetAuthService() AuthServiceInterface {
	return s.authService
}

// GetInfrastructureService returns the infrastructure service interface
func (s *Service) GetInfrastructureService() InfrastructureServiceInterface {
	return s.infrastructureService
}
