package services

import (
	"context"
	"defects-register/models"
	"defects-register/utils/logger"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLogger implements logger.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(args ...interface{}) {
	m.Called(args...)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

// newPermissiveLogger returns a MockLogger that accepts any call
func newPermissiveLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

// MockDefectRepository implements repository.DefectRepositoryInterface for testing
type MockDefectRepository struct {
	mock.Mock
}

func (m *MockDefectRepository) CreateDefect(ctx context.Context, defect *models.DefectRecord) (*models.DefectRecord, error) {
	args := m.Called(ctx, defect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectRecord), args.Error(1)
}

func (m *MockDefectRepository) GetDefectByID(ctx context.Context, id string) (*models.DefectRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectRecord), args.Error(1)
}

func (m *MockDefectRepository) UpdateDefect(ctx context.Context, defect *models.DefectRecord) (*models.DefectRecord, error) {
	args := m.Called(ctx, defect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectRecord), args.Error(1)
}

func (m *MockDefectRepository) SoftDeleteDefect(ctx context.Context, id, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, id, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockDefectRepository) GetDefectsByVessels(ctx context.Context, vesselIDs []string) ([]models.DefectRecord, error) {
	args := m.Called(ctx, vesselIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DefectRecord), args.Error(1)
}

// MockVesselRepository implements repository.VesselRepositoryInterface for testing
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
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

// MockUserRepository implements repository.UserRepositoryInterface for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockObjectStore implements dal.ObjectStoreInterface for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

// defect builds a minimal record for tests
func defect(id, vesselID string, status models.DefectStatus, criticality models.Criticality, equipment, reported string) models.DefectRecord {
	return models.DefectRecord{
		ID:            id,
		VesselID:      vesselID,
		VesselName:    "MV " + vesselID,
		Equipment:     equipment,
		Description:   "Description of " + id,
		ActionPlanned: "Action for " + id,
		Criticality:   criticality,
		Status:        status,
		DateReported:  reported,
	}
}

func date(s string) *time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}
