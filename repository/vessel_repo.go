package repository

import (
	"context"
	"defects-register/dal"
	"defects-register/models"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"time"
)

const userIndex = "userId-index"

type VesselRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewVesselRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *VesselRepository {
	return &VesselRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *VesselRepository) table() string {
	return r.config.TableName("user_vessels")
}

// GetAssignments returns the vessels assigned to a user
func (r *VesselRepository) GetAssignments(ctx context.Context, userID string) ([]models.UserVessel, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	r.logger.Infof("Getting vessel assignments for user: %s", userID)

	var assignments []models.UserVessel
	err := r.db.QueryByIndex(ctx, models.QueryConfig{
		TableName: r.table(),
		IndexName: userIndex,
		KeyName:   "userId",
		KeyValue:  userID,
		KeyType:   models.StringType,
	}, &assignments)
	if err != nil {
		r.logger.Errorf("Failed to get vessel assignments for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to get vessel assignments: %w", err)
	}

	r.logger.Infof("Found %d vessel assignments for user %s", len(assignments), userID)
	return assignments, nil
}

// AssignVessel records that a user may work on a vessel
func (r *VesselRepository) AssignVessel(ctx context.Context, assignment *models.UserVessel) error {
	if assignment.UserID == "" || assignment.VesselID == "" {
		return errors.New("user id and vessel id are required")
	}
	assignment.ID = assignment.UserID + "#" + assignment.VesselID
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}

	if err := r.db.PutItem(ctx, r.table(), assignment); err != nil {
		r.logger.Errorf("Failed to assign vessel %s to %s: %v", assignment.VesselID, assignment.UserID, err)
		return err
	}
	r.logger.Infof("Vessel %s assigned to user %s", assignment.VesselID, assignment.UserID)
	return nil
}
