package services

import (
	"context"
	"defects-register/models"
	"defects-register/repository"
	"defects-register/utils/logger"
	"fmt"
)

const allVesselsLabel = "All Vessels"

type VesselService struct {
	repo   repository.VesselRepositoryInterface
	logger logger.Logger
}

func NewVesselService(repo repository.VesselRepositoryInterface, logger logger.Logger) *VesselService {
	return &VesselService{
		repo:   repo,
		logger: logger,
	}
}

// Assigned returns the vessels assigned to a user in assignment order, without duplicates
func (s *VesselService) Assigned(ctx context.Context, userID string) ([]models.Vessel, error) {
	assignments, err := s.repo.GetAssignments(ctx, userID)
	if err != nil {
		s.logger.Errorf("Failed to load vessels for user %s: %v", userID, err)
		return nil, err
	}

	vessels := make([]models.Vessel, 0, len(assignments))
	seen := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		if _, dup := seen[a.VesselID]; dup {
			continue
		}
		seen[a.VesselID] = struct{}{}
		vessels = append(vessels, models.Vessel{ID: a.VesselID, Name: a.VesselName})
	}
	return vessels, nil
}

// Names returns the id to name lookup of the user's vessels
func (s *VesselService) Names(ctx context.Context, userID string) (map[string]string, error) {
	vessels, err := s.Assigned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return vesselNames(vessels), nil
}

func vesselNames(vessels []models.Vessel) map[string]string {
	names := make(map[string]string, len(vessels))
	for _, v := range vessels {
		names[v.ID] = v.Name
	}
	return names
}

// ScopeLabel describes a vessel selection for report titles and filenames.
// Repeated ids count once. Unknown ids in a single selection fall back to the id itself.
func ScopeLabel(selected []string, names map[string]string) string {
	selected = uniqueIDs(selected)
	switch len(selected) {
	case 0:
		return allVesselsLabel
	case 1:
		if name := names[selected[0]]; name != "" {
			return name
		}
		return selected[0]
	default:
		return fmt.Sprintf("%d Vessels Selected", len(selected))
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
