package controller

import (
	"context"
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/services"
	"defects-register/utils/logger"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDefectService struct {
	mock.Mock
}

func (m *MockDefectService) NewDraft(vessels []models.Vessel, now time.Time) (*models.DefectRecord, error) {
	args := m.Called(vessels, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectRecord), args.Error(1)
}

func (m *MockDefectService) Draft(ctx context.Context, userID string) (*models.DefectRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectRecord), args.Error(1)
}

func (m *MockDefectService) Save(ctx context.Context, userID string, req *models.SaveDefectRequest) (*models.DefectRecord, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefectRecord), args.Error(1)
}

func (m *MockDefectService) SoftDelete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockDefectService) List(ctx context.Context, userID string) ([]models.DefectRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DefectRecord), args.Error(1)
}

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

// MockInfrastructureService implements InfrastructureServiceInterface for testing
type MockInfrastructureService struct {
	mock.Mock
}

func (m *MockInfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionResult), args.Error(1)
}

func (m *MockInfrastructureService) RestartWorker(ctx context.Context, force bool) (*models.ProvisioningRunResult, error) {
	args := m.Called(ctx, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProvisioningRunResult), args.Error(1)
}

func (m *MockInfrastructureService) IsWorkerHealthy() (bool, string, error) {
	args := m.Called()
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockInfrastructureService) AutoRestartIfNeeded(ctx context.Context) (*models.ProvisioningRunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProvisioningRunResult), args.Error(1)
}

// mockServices is a ServiceContainerInterface over the mocks above
type mockServices struct {
	defects *MockDefectService
	vessels *MockVesselService
	reports *MockReportService
	auth    *MockAuthService
	infra   *MockInfrastructureService
}

func newMockServices() *mockServices {
	return &mockServices{
		defects: &MockDefectService{},
		vessels: &MockVesselService{},
		reports: &MockReportService{},
		auth:    &MockAuthService{},
		infra:   &MockInfrastructureService{},
	}
}

func (s *mockServices) GetDefectService() services.DefectServiceInterface { return s.defects }
func (s *mockServices) GetVesselService() services.VesselServiceInterface { return s.vessels }
func (s *mockServices) GetReportService() services.ReportServiceInterface { return s.reports }
func (s *mockServices) GetAuthService() services.AuthServiceInterface     { return s.auth }
func (s *mockServices) GetInfrastructureService() services.InfrastructureServiceInterface {
	return s.infra
}

func (s *mockServices) assertExpectations(t *testing.T) {
	s.defects.AssertExpectations(t)
	s.vessels.AssertExpectations(t)
	s.reports.AssertExpectations(t)
	s.auth.AssertExpectations(t)
	s.infra.AssertExpectations(t)
}

func testConfig() *models.Config {
	return &models.Config{
		AppName:      "defects-register",
		AppVersion:   "1.2.3",
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
		BasePath:     "/api/v1",
	}
}

// testServer wires the real routes and JWT manager over mocked services
type testServer struct {
	router   *gin.Engine
	services *mockServices
	jwt      *middelware.JWTManager
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	log := logger.Nop()
	svc := newMockServices()
	jwtManager := middelware.NewJWTManager(cfg, log, nil)

	router := gin.New()
	NewController(svc, jwtManager, cfg, log).RegisterRoutes(router, cfg.BasePath)
	return &testServer{router: router, services: svc, jwt: jwtManager}
}

func (s *testServer) token(t *testing.T, userID string, role models.UserRole) string {
	token, err := s.jwt.GenerateToken(&models.User{ID: userID, Email: userID + "@fleet.example", Role: role, Status: models.UserStatusActive})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// apiResponse decodes an APIResponse keeping Data raw
type apiResponse struct {
	Status  string           `json:"status"`
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func sampleDefects() []models.DefectRecord {
	return []models.DefectRecord{
		{ID: "d3", VesselID: "V1", VesselName: "Atlas", Equipment: "Main Engine", Description: "Fuel pump leak", Criticality: models.CriticalityHigh, Status: models.StatusOpen, DateReported: "2024-06-03"},
		{ID: "d2", VesselID: "V2", VesselName: "Borealis", Equipment: "Steering Gear", Description: "Noise", Criticality: models.CriticalityLow, Status: models.StatusClosed, DateReported: "2024-06-02"},
		{ID: "d1", VesselID: "V1", VesselName: "Atlas", Equipment: "BWTS", Description: "UV lamp failure", Criticality: models.CriticalityMedium, Status: models.StatusInProgress, DateReported: "2024-06-01"},
	}
}
