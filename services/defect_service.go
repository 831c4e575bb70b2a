package services

import (
	"context"
	"defects-register/models"
	"defects-register/repository"
	"defects-register/utils"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// NoVesselsMessage is shown when a user without assigned vessels tries to create a defect
const NoVesselsMessage = "No vessels assigned to you. Contact administrator."

// ValidationError carries the field a request failed on
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return models.ErrValidation
}

type DefectService struct {
	repo      repository.DefectRepositoryInterface
	vessels   *VesselService
	validator *validator.Validate
	logger    logger.Logger
	now       func() time.Time
}

func NewDefectService(repo repository.DefectRepositoryInterface, vessels *VesselService, logger logger.Logger) *DefectService {
	return &DefectService{
		repo:      repo,
		vessels:   vessels,
		validator: utils.NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// NewDraft returns an unsaved defect for the first assigned vessel
func (s *DefectService) NewDraft(vessels []models.Vessel, now time.Time) (*models.DefectRecord, error) {
	if len(vessels) == 0 {
		return nil, &ValidationError{Field: "vesselId", Message: NoVesselsMessage}
	}
	return &models.DefectRecord{
		ID:              models.TempIDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		VesselID:        vessels[0].ID,
		VesselName:      vessels[0].Name,
		Status:          models.StatusOpen,
		DateReported:    now.Format(models.DateLayout),
		AssociatedFiles: []models.AssociatedFile{},
	}, nil
}

// Draft loads the caller's vessels and returns a new draft for them
func (s *DefectService) Draft(ctx context.Context, userID string) (*models.DefectRecord, error) {
	vessels, err := s.vessels.Assigned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.NewDraft(vessels, s.now())
}

// Save creates a draft or updates an existing defect after validating and authorizing it
func (s *DefectService) Save(ctx context.Context, userID string, req *models.SaveDefectRequest) (*models.DefectRecord, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	status, ok := models.NormalizeStatus(req.Status)
	if !ok {
		return nil, &ValidationError{Field: "status", Message: "status must be one of Open, In Progress, Closed"}
	}
	criticality, ok := models.NormalizeCriticality(req.Criticality)
	if !ok {
		return nil, &ValidationError{Field: "criticality", Message: "criticality must be one of High, Medium, Low"}
	}

	names, err := s.vessels.Names(ctx, userID)
	if err != nil {
		return nil, err
	}
	vesselName, assigned := names[req.VesselID]
	if !assigned {
		s.logger.Warnf("User %s tried to save a defect on unassigned vessel %s", userID, req.VesselID)
		return nil, fmt.Errorf("vessel %s: %w", req.VesselID, models.ErrUnauthorizedVessel)
	}

	record := &models.DefectRecord{
		ID:              req.ID,
		VesselID:        req.VesselID,
		VesselName:      vesselName,
		Equipment:       strings.TrimSpace(req.Equipment),
		Description:     req.Description,
		ActionPlanned:   req.ActionPlanned,
		Comments:        req.Comments,
		Criticality:     criticality,
		Status:          status,
		DateReported:    req.DateReported,
		DateCompleted:   req.DateCompleted,
		AssociatedFiles: req.AssociatedFiles,
		UpdatedBy:       userID,
	}

	if record.IsDraft() {
		record.ID = utils.GenerateUUID()
		record.CreatedBy = userID
		s.logger.Infof("Creating defect %s for vessel %s", record.ID, record.VesselID)
		return s.repo.CreateDefect(ctx, record)
	}

	existing, err := s.visible(ctx, record.ID, names)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Updating defect %s (vessel %s -> %s)", record.ID, existing.VesselID, record.VesselID)
	return s.repo.UpdateDefect(ctx, record)
}

// SoftDelete hides a defect from every listing and report
func (s *DefectService) SoftDelete(ctx context.Context, userID, id string) error {
	names, err := s.vessels.Names(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.visible(ctx, id, names); err != nil {
		return err
	}
	return s.repo.SoftDeleteDefect(ctx, id, userID, s.now().UTC())
}

// List returns the non-deleted defects of the caller's vessels, most recently reported first
func (s *DefectService) List(ctx context.Context, userID string) ([]models.DefectRecord, error) {
	records, _, err := s.listWithVessels(ctx, userID)
	return records, err
}

func (s *DefectService) listWithVessels(ctx context.Context, userID string) ([]models.DefectRecord, []models.Vessel, error) {
	vessels, err := s.vessels.Assigned(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(vessels) == 0 {
		return []models.DefectRecord{}, vessels, nil
	}

	ids := make([]string, 0, len(vessels))
	for _, v := range vessels {
		ids = append(ids, v.ID)
	}

	records, err := s.repo.GetDefectsByVessels(ctx, ids)
	if err != nil {
		s.logger.Errorf("Failed to list defects for user %s: %v", userID, err)
		return nil, nil, err
	}
	for i := range records {
		records[i] = records[i].Canonical()
	}
	return SortByMostRecent(records), vessels, nil
}

// visible loads a defect and checks that it is live and on one of the given vessels
func (s *DefectService) visible(ctx context.Context, id string, names map[string]string) (*models.DefectRecord, error) {
	existing, err := s.repo.GetDefectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsDeleted {
		return nil, models.ErrDefectNotFound
	}
	if _, ok := names[existing.VesselID]; !ok {
		return nil, fmt.Errorf("defect %s: %w", id, models.ErrUnauthorizedVessel)
	}
	return existing, nil
}

func (s *DefectService) validate(req *models.SaveDefectRequest) error {
	err := s.validator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: lowerFirst(fieldErrs[0].Field()), Message: FormatFieldError(fieldErrs[0])}
	}
	return &ValidationError{Message: err.Error()}
}

// FormatFieldError renders a validator field error as a short sentence
func FormatFieldError(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", field, "YYYY-MM-DD")
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
