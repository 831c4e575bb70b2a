package main

import (
	"bytes"
	"context"
	"defects-register/models"
	"defects-register/utils/logger"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockVesselService struct {
	mock.Mock
}

func (m *MockVesselService) Assigned(ctx context.Context, userID string) ([]models.Vessel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vessel), args.Error(1)
}

func (m *MockVesselService) Names(ctx context.Context, userID string) (map[string]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ExportCSV(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error) {
	args := m.Called(ctx, userID, criteria, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockReportService) ExportPDF(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time) (*models.Artifact, error) {
	args := m.Called(ctx, userID, criteria, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockReportService) Stats(ctx context.Context, userID string, criteria models.FilterCriteria, now time.Time, topN int) (*models.DefectStats, error) {
	args := m.Called(ctx, userID, criteria, now, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectStats), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, user *models.User, password string) (*models.User, error) {
	args := m.Called(ctx, user, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockVesselRepository struct {
	mock.Mock
}

func (m *MockVesselRepository) GetAssignments(ctx context.Context, userID string) ([]models.UserVessel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserVessel), args.Error(1)
}

func (m *MockVesselRepository) AssignVessel(ctx context.Context, assignment *models.UserVessel) error {
	return m.Called(ctx, assignment).Error(0)
}

// fakeBackend bundles the mocks behind a backend
type fakeBackend struct {
	vessels     *MockVesselService
	reports     *MockReportService
	auth        *MockAuthService
	assignments *MockVesselRepository
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		vessels:     new(MockVesselService),
		reports:     new(MockReportService),
		auth:        new(MockAuthService),
		assignments: new(MockVesselRepository),
	}
}

func (f *fakeBackend) factory(context.Context, *models.Config, logger.Logger) (*backend, error) {
	return &backend{
		vessels:     f.vessels,
		reports:     f.reports,
		auth:        f.auth,
		assignments: f.assignments,
	}, nil
}

// execute runs defectctl with args against the fake backend and returns its output
func (f *fakeBackend) execute(args ...string) (string, error) {
	root := newRootCmd(f.factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func day(s string) time.Time {
	t, _ := models.ParseCalendarDate(s)
	return t
}
