package services

import (
	"context"
	"defects-register/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVesselServiceAssignedDeduplicates(t *testing.T) {
	repo := &MockVesselRepository{}
	ctx := context.Background()
	repo.On("GetAssignments", ctx, "u1").Return([]models.UserVessel{
		{VesselID: "V1", VesselName: "MV Aurora"},
		{VesselID: "V2", VesselName: "MV Borealis"},
		{VesselID: "V1", VesselName: "MV Aurora"},
	}, nil)

	service := NewVesselService(repo, newPermissiveLogger())
	vessels, err := service.Assigned(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Vessel{{ID: "V1", Name: "MV Aurora"}, {ID: "V2", Name: "MV Borealis"}}, vessels)

	names, err := service.Names(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"V1": "MV Aurora", "V2": "MV Borealis"}, names)
}

func TestVesselServicePropagatesErrors(t *testing.T) {
	repo := &MockVesselRepository{}
	ctx := context.Background()
	repo.On("GetAssignments", ctx, "u1").Return(nil, errors.New("unavailable"))

	_, err := NewVesselService(repo, newPermissiveLogger()).Assigned(ctx, "u1")
	assert.EqualError(t, err, "unavailable")
}

func TestScopeLabel(t *testing.T) {
	names := map[string]string{"V1": "MV Aurora", "V2": "MV Borealis"}
	tests := []struct {
		selected []string
		want     string
	}{
		{nil, "All Vessels"},
		{[]string{}, "All Vessels"},
		{[]string{"V1"}, "MV Aurora"},
		{[]string{"V9"}, "V9"},
		{[]string{"V1", "V2"}, "2 Vessels Selected"},
		{[]string{"V1", "V2", "V9"}, "3 Vessels Selected"},
		{[]string{"V1", "V1"}, "MV Aurora"},
		{[]string{"V1", "V2", "V1", "V2"}, "2 Vessels Selected"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScopeLabel(tt.selected, names), "%v", tt.selected)
	}
}
