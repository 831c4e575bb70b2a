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

const vesselIndex = "vesselId-index"

type DefectRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewDefectRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *DefectRepository {
	return &DefectRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *DefectRepository) table() string {
	return r.config.TableName("defects")
}

// CreateDefect stores a new defect. The id must already be a real (non-temporary) id.
func (r *DefectRepository) CreateDefect(ctx context.Context, defect *models.DefectRecord) (*models.DefectRecord, error) {
	if defect.IsDraft() {
		return nil, errors.New("defect needs a persistent id before it can be stored")
	}
	r.logger.Infof("Creating defect %s on vessel %s", defect.ID, defect.VesselID)

	now := time.Now().UTC()
	defect.CreatedAt = now
	defect.UpdatedAt = now
	if defect.AssociatedFiles == nil {
		defect.AssociatedFiles = []models.AssociatedFile{}
	}

	if err := r.db.PutItem(ctx, r.table(), defect); err != nil {
		r.logger.Errorf("Failed to create defect: %v", err)
		return nil, err
	}

	r.logger.Infof("Defect created successfully: %s", defect.ID)
	return defect, nil
}

// GetDefectByID returns the defect with the given id, deleted or not
func (r *DefectRepository) GetDefectByID(ctx context.Context, id string) (*models.DefectRecord, error) {
	if id == "" {
		return nil, errors.New("defect id is required")
	}

	var defect models.DefectRecord
	found, err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.table(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &defect)
	if err != nil {
		r.logger.Errorf("Failed to get defect %s: %v", id, err)
		return nil, fmt.Errorf("failed to get defect %s: %w", id, err)
	}
	if !found {
		return nil, models.ErrDefectNotFound
	}
	defect = defect.Canonical()
	return &defect, nil
}

// UpdateDefect replaces a stored defect, keeping its creation audit fields
func (r *DefectRepository) UpdateDefect(ctx context.Context, defect *models.DefectRecord) (*models.DefectRecord, error) {
	r.logger.Infof("Updating defect: %s", defect.ID)

	existing, err := r.GetDefectByID(ctx, defect.ID)
	if err != nil {
		return nil, err
	}

	defect.CreatedAt = existing.CreatedAt
	defect.CreatedBy = existing.CreatedBy
	defect.UpdatedAt = time.Now().UTC()
	if defect.AssociatedFiles == nil {
		defect.AssociatedFiles = []models.AssociatedFile{}
	}

	if err := r.db.PutItem(ctx, r.table(), defect); err != nil {
		r.logger.Errorf("Failed to update defect: %v", err)
		return nil, err
	}

	r.logger.Infof("Defect updated successfully: %s", defect.ID)
	return defect, nil
}

// SoftDeleteDefect flags a defect as deleted; the row itself is kept
func (r *DefectRepository) SoftDeleteDefect(ctx context.Context, id, deletedBy string, deletedAt time.Time) error {
	r.logger.Infof("Soft deleting defect %s by %s", id, deletedBy)

	err := r.db.UpdateItem(ctx, r.table(), "id", id, map[string]interface{}{
		"isDeleted": true,
		"deletedBy": deletedBy,
		"deletedAt": deletedAt.UTC(),
		"updatedAt": deletedAt.UTC(),
		"updatedBy": deletedBy,
	})
	if err != nil {
		r.logger.Errorf("Failed to soft delete defect %s: %v", id, err)
		return err
	}

	r.logger.Infof("Defect soft deleted successfully: %s", id)
	return nil
}

// GetDefectsByVessels returns the non-deleted defects of every given vessel, grouped by vessel in argument order.
// Legacy status and criticality spellings come back in their canonical encoding.
func (r *DefectRepository) GetDefectsByVessels(ctx context.Context, vesselIDs []string) ([]models.DefectRecord, error) {
	r.logger.Infof("Getting defects for %d vessels", len(vesselIDs))

	all := make([]models.DefectRecord, 0)
	seen := make(map[string]struct{}, len(vesselIDs))
	for _, vesselID := range vesselIDs {
		if _, dup := seen[vesselID]; dup {
			continue
		}
		seen[vesselID] = struct{}{}

		var defects []models.DefectRecord
		err := r.db.QueryByIndex(ctx, models.QueryConfig{
			TableName:   r.table(),
			IndexName:   vesselIndex,
			KeyName:     "vesselId",
			KeyValue:    vesselID,
			KeyType:     models.StringType,
			ExcludeFlag: "isDeleted",
		}, &defects)
		if err != nil {
			r.logger.Errorf("Failed to get defects for vessel %s: %v", vesselID, err)
			return nil, fmt.Errorf("failed to get defects for vessel %s: %w", vesselID, err)
		}

		for _, d := range defects {
			if d.IsDeleted {
				continue
			}
			all = append(all, d.Canonical())
		}
	}

	r.logger.Infof("Found %d defects", len(all))
	return all, nil
}
