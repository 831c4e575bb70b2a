package repository

import (
	"defects-register/dal"
	"defects-register/models"
	"defects-register/utils/logger"
)

// Repository implements RepositoryContainerInterface
type Repository struct {
	defects DefectRepositoryInterface
	vessels VesselRepositoryInterface
	users   UserRepositoryInterface
}

// NewRepository wires every repository onto the same database client
func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		defects: NewDefectRepository(db, cfg, log),
		vessels: NewVesselRepository(db, cfg, log),
		users:   NewUserRepository(db, cfg, log),
	}
}

// GetDefectRepository returns the defect repository
func (r *Repository) GetDefectRepository() DefectRepositoryInterface {
	return r.defects
}

// GetVesselRepository returns the vessel assignment repository
func (r *Repository) GetVesselRepository() VesselRepositoryInterface {
	return r.vessels
}

// GetUserRepository returns the user repository
func (r *Repository) GetUserRepository() UserRepositoryInterface {
	return r.users
}
