package main

import (
	"defects-register/models"
	"defects-register/services"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DefectctlTestSuite struct {
	suite.Suite
	backend *fakeBackend
}

func (s *DefectctlTestSuite) SetupTest() {
	s.backend = newFakeBackend()
}

func (s *DefectctlTestSuite) TearDownTest() {
	s.backend.vessels.AssertExpectations(s.T())
	s.backend.reports.AssertExpectations(s.T())
	s.backend.auth.AssertExpectations(s.T())
	s.backend.assignments.AssertExpectations(s.T())
}

func (s *DefectctlTestSuite) TestVesselsRendersTable() {
	s.backend.vessels.On("Assigned", mock.Anything, "u1").Return([]models.Vessel{
		{ID: "V1", Name: "Atlas"},
		{ID: "V2", Name: "Borealis"},
	}, nil)

	out, err := s.backend.execute("vessels", "--user", "u1")

	s.Require().NoError(err)
	s.Contains(out, "Atlas")
	s.Contains(out, "Borealis")
	s.Contains(out, "NAME")
}

func (s *DefectctlTestSuite) TestVesselsEmpty() {
	s.backend.vessels.On("Assigned", mock.Anything, "u1").Return([]models.Vessel{}, nil)

	out, err := s.backend.execute("vessels", "--user", "u1")

	s.Require().NoError(err)
	s.Contains(out, "No vessels assigned")
}

func (s *DefectctlTestSuite) TestVesselsRequiresUser() {
	_, err := s.backend.execute("vessels")

	s.Require().Error(err)
	s.Contains(err.Error(), "user")
}

func (s *DefectctlTestSuite) TestStatsFromFlags() {
	now := day("2024-06-30")
	expected := models.FilterCriteria{
		VesselIDs: []string{"V1", "V2"},
		Status:    models.StatusOpen,
	}
	s.backend.reports.On("Stats", mock.Anything, "u1", expected, now, 3).Return(&models.DefectStats{
		Total:              4,
		Critical:           1,
		CriticalPercentage: 25,
		Equipment:          []models.EquipmentCount{{Name: "Steering Gear", Count: 3}, {Name: "BWTS", Count: 1}},
		Status:             []models.StatusCount{{Status: models.StatusOpen, Label: "Open", Count: 4, Percentage: 100}},
		Trend:              models.TrendDelta{ReferenceDate: "2024-06-30", WindowDays: 30, CurrentTotal: 4, Delta: -12.5},
	}, nil)

	out, err := s.backend.execute("stats", "--user", "u1", "--vessel", "V1,V2", "--status", "open", "--now", "2024-06-30", "--top", "3")

	s.Require().NoError(err)
	s.Contains(out, "Steering Gear")
	s.Contains(out, "1 (25.0%)")
	s.Contains(out, "-12.5")
}

func (s *DefectctlTestSuite) TestStatsDefaultsTopToConfig() {
	s.backend.reports.On("Stats", mock.Anything, "u1", models.FilterCriteria{}, mock.AnythingOfType("time.Time"), models.DefaultTopN).
		Return(&models.DefectStats{}, nil)

	_, err := s.backend.execute("stats", "--user", "u1")

	s.Require().NoError(err)
}

func (s *DefectctlTestSuite) TestStatsRejectsUnknownStatus() {
	_, err := s.backend.execute("stats", "--user", "u1", "--status", "pending")

	s.Require().Error(err)
	var verr *services.ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("status", verr.Field)
}

func (s *DefectctlTestSuite) TestStatsRejectsReversedRange() {
	_, err := s.backend.execute("stats", "--user", "u1", "--from", "2024-06-10", "--to", "2024-06-01")

	s.Require().Error(err)
	s.ErrorIs(err, models.ErrValidation)
}

func (s *DefectctlTestSuite) TestStatsRejectsMalformedDate() {
	_, err := s.backend.execute("stats", "--user", "u1", "--from", "10/06/2024")

	s.Require().Error(err)
	s.Contains(err.Error(), "invalid filter")
}

func (s *DefectctlTestSuite) TestCriteriaPresetWithFlagOverride() {
	preset := filepath.Join(s.T().TempDir(), "preset.yaml")
	s.Require().NoError(os.WriteFile(preset, []byte(`vessels: [V1]
criticality: high
search: pump
from: "2024-06-01"
`), 0o600))

	from := day("2024-06-01")
	expected := models.FilterCriteria{
		VesselIDs:   []string{"V1"},
		Criticality: models.CriticalityHigh,
		SearchTerm:  "engine",
		DateFrom:    &from,
	}
	s.backend.reports.On("Stats", mock.Anything, "u1", expected, day("2024-07-01"), models.DefaultTopN).
		Return(&models.DefectStats{}, nil)

	_, err := s.backend.execute("stats", "--user", "u1", "--criteria", preset, "--search", "engine", "--now", "2024-07-01")

	s.Require().NoError(err)
}

func (s *DefectctlTestSuite) TestCriteriaPresetMissingFile() {
	_, err := s.backend.execute("stats", "--user", "u1", "--criteria", filepath.Join(s.T().TempDir(), "missing.yaml"))

	s.Require().Error(err)
	s.Contains(err.Error(), "failed to read criteria preset")
}

func (s *DefectctlTestSuite) TestExportCSVWritesFile() {
	dir := filepath.Join(s.T().TempDir(), "reports")
	s.backend.reports.On("ExportCSV", mock.Anything, "u1", models.FilterCriteria{}, day("2024-06-30")).Return(&models.Artifact{
		Filename:    "defects-report-2024-06-30.csv",
		ContentType: "text/csv",
		Body:        []byte("Vessel,Equipment\n"),
		ArchiveKey:  "reports/u1/defects-report-2024-06-30.csv",
	}, nil)

	out, err := s.backend.execute("export", "csv", "--user", "u1", "--now", "2024-06-30", "--out", dir)

	s.Require().NoError(err)
	body, readErr := os.ReadFile(filepath.Join(dir, "defects-report-2024-06-30.csv"))
	s.Require().NoError(readErr)
	s.Equal("Vessel,Equipment\n", string(body))
	s.Contains(out, "Archived as reports/u1/defects-report-2024-06-30.csv")
}

func (s *DefectctlTestSuite) TestExportPDF() {
	dir := s.T().TempDir()
	s.backend.reports.On("ExportPDF", mock.Anything, "u1", models.FilterCriteria{Status: models.StatusClosed}, mock.AnythingOfType("time.Time")).
		Return(&models.Artifact{Filename: "defects-report-all-vessels-2024-06-30.pdf", Body: []byte("%PDF-1.3")}, nil)

	out, err := s.backend.execute("export", "pdf", "--user", "u1", "--status", "closed", "--out", dir)

	s.Require().NoError(err)
	s.FileExists(filepath.Join(dir, "defects-report-all-vessels-2024-06-30.pdf"))
	s.NotContains(out, "Archived as")
}

func (s *DefectctlTestSuite) TestExportRejectsUnknownFormat() {
	_, err := s.backend.execute("export", "xls", "--user", "u1")

	s.Require().Error(err)
}

func (s *DefectctlTestSuite) TestExportPropagatesServiceError() {
	s.backend.reports.On("ExportCSV", mock.Anything, "u1", models.FilterCriteria{}, mock.AnythingOfType("time.Time")).
		Return(nil, models.ErrUnauthorizedVessel)

	_, err := s.backend.execute("export", "csv", "--user", "u1", "--out", s.T().TempDir())

	s.ErrorIs(err, models.ErrUnauthorizedVessel)
}

func (s *DefectctlTestSuite) TestUsersAddWithVessels() {
	s.backend.auth.On("Register", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "chief@fleet.test" && u.Role == models.UserRoleSuperintendent && u.FirstName == "Ana"
	}), "s3cret-pass").Return(&models.User{ID: "u9", Email: "chief@fleet.test"}, nil)
	s.backend.assignments.On("AssignVessel", mock.Anything, mock.MatchedBy(func(a *models.UserVessel) bool {
		return a.UserID == "u9" && a.VesselID == "V1" && a.VesselName == "Atlas"
	})).Return(nil).Once()
	s.backend.assignments.On("AssignVessel", mock.Anything, mock.MatchedBy(func(a *models.UserVessel) bool {
		return a.UserID == "u9" && a.VesselID == "V2" && a.VesselName == "Borealis"
	})).Return(nil).Once()

	out, err := s.backend.execute("users", "add",
		"--email", "chief@fleet.test",
		"--password", "s3cret-pass",
		"--first-name", "Ana",
		"--role", "superintendent",
		"--vessel", "V1=Atlas",
		"--vessel", "V2=Borealis",
	)

	s.Require().NoError(err)
	s.Contains(out, "Created user u9 (chief@fleet.test) with 2 vessel(s)")
}

func (s *DefectctlTestSuite) TestUsersAddRejectsBadAssignment() {
	_, err := s.backend.execute("users", "add", "--email", "a@b.test", "--password", "password1", "--vessel", "V1")

	s.Require().Error(err)
	s.Contains(err.Error(), "expected id=name")
}

func TestDefectctlTestSuite(t *testing.T) {
	suite.Run(t, new(DefectctlTestSuite))
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []*models.UserVessel
		wantErr bool
	}{
		{name: "empty", values: nil, want: []*models.UserVessel{}},
		{
			name:   "trimmed pairs",
			values: []string{" V1 = Atlas ", "V2=Borealis"},
			want: []*models.UserVessel{
				{VesselID: "V1", VesselName: "Atlas"},
				{VesselID: "V2", VesselName: "Borealis"},
			},
		},
		{name: "missing name", values: []string{"V1="}, wantErr: true},
		{name: "missing separator", values: []string{"V1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.values)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterFlagsNowFallback(t *testing.T) {
	fallback := time.Date(2024, 5, 5, 12, 0, 0, 0, time.UTC)
	f := &filterFlags{}

	criteria, now, err := f.criteria(fallback)

	require.NoError(t, err)
	assert.True(t, criteria.IsEmpty())
	assert.Equal(t, fallback, now)
}
