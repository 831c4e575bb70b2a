package services

import (
	"context"
	"defects-register/models"
	"defects-register/utils/logger"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const provisioningServiceName = "table-provisioning-worker"

// stuckAfter is how long a provisioning run may stay in progress before it is reported degraded
const stuckAfter = 30 * time.Minute

type InfrastructureService struct {
	trigger ProvisioningTrigger
	logger  logger.Logger
	config  *models.Config
	now     func() time.Time
}

// NewInfrastructureService reports on the provisioning worker. trigger may be nil when the worker is disabled.
func NewInfrastructureService(trigger ProvisioningTrigger, logger logger.Logger, config *models.Config) *InfrastructureService {
	return &InfrastructureService{
		trigger: trigger,
		logger:  logger,
		config:  config,
		now:     time.Now,
	}
}

// getWorkerStatus reads worker status from the status file
func (s *InfrastructureService) getWorkerStatus() (*models.ExecutionResult, error) {
	data, err := os.ReadFile(s.config.WorkerStatusFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read worker status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worker status: %w", err)
	}

	return &result, nil
}

// GetWorkerStatus returns the last recorded provisioning run with phase, progress and health filled in
func (s *InfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	s.logger.Debug("Getting provisioning worker status")

	result, err := s.getWorkerStatus()
	if err != nil {
		return nil, err
	}

	s.enrichStatus(result)
	return result, nil
}

// IsWorkerHealthy reports whether the last provisioning run left every table usable
func (s *InfrastructureService) IsWorkerHealthy() (bool, string, error) {
	status, err := s.getWorkerStatus()
	if err != nil {
		return false, "Cannot read worker status", err
	}

	switch status.Status {
	case models.StatusCompleted:
		if status.Success {
			return true, "Tables provisioned", nil
		}
		return false, "Provisioning completed with errors", nil
	case models.StatusFailed:
		return false, fmt.Sprintf("Provisioning failed: %s", status.ErrorMessage), nil
	case models.StatusRetrying:
		return false, "Provisioning is retrying after failure", nil
	case models.StatusIdle:
		return false, "Provisioning has not run yet", nil
	default:
		if s.now().Sub(status.StartTime) > stuckAfter {
			return false, "Provisioning running too long", nil
		}
		return true, "Provisioning in progress", nil
	}
}

// RestartWorker starts a provisioning run now. Without force an in-progress run is left alone.
func (s *InfrastructureService) RestartWorker(ctx context.Context, force bool) (*models.ProvisioningRunResult, error) {
	s.logger.Info("Restarting table provisioning")

	result := &models.ProvisioningRunResult{
		ServiceName: provisioningServiceName,
		StartTime:   s.now(),
		Status:      "in_progress",
	}

	if s.trigger == nil {
		result.Status = "failed"
		result.Error = "provisioning worker is disabled"
		result.EndTime = s.now()
		return result, models.ErrProvisioningDisabled
	}

	if current, err := s.getWorkerStatus(); err == nil && !force && inProgress(current.Status) {
		result.Status = "failed"
		result.Error = "Provisioning is currently running. Use force=true to restart anyway"
		result.EndTime = s.now()
		return result, models.ErrProvisioningRunning
	}

	if err := s.trigger.RunNow(ctx); err != nil {
		result.Status = "failed"
		result.Error = err.Error()
		result.EndTime = s.now()
		return result, err
	}

	result.Status = "completed"
	result.EndTime = s.now()
	result.Output = "Provisioning run finished"
	if status, err := s.getWorkerStatus(); err == nil {
		result.Tables = status.TablesCreated
	}
	s.logger.Info("Table provisioning restart completed")
	return result, nil
}

// AutoRestartIfNeeded reruns provisioning when the last run left the tables unusable
func (s *InfrastructureService) AutoRestartIfNeeded(ctx context.Context) (*models.ProvisioningRunResult, error) {
	healthy, reason, err := s.IsWorkerHealthy()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check worker health: %w", err)
	}

	if healthy {
		now := s.now()
		return &models.ProvisioningRunResult{
			ServiceName: provisioningServiceName,
			Status:      "not_needed",
			StartTime:   now,
			EndTime:     now,
			Output:      "Tables are provisioned, no restart needed",
		}, nil
	}

	s.logger.Warnf("Provisioning is unhealthy (%s), starting a new run", reason)
	return s.RestartWorker(ctx, true)
}

func inProgress(status models.WorkerStatus) bool {
	switch status {
	case models.StatusInitializing, models.StatusCreatingTables, models.StatusWaitingForTables, models.StatusValidating:
		return true
	}
	return false
}

// enrichStatus fills in phase, progress and health from the recorded status
func (s *InfrastructureService) enrichStatus(result *models.ExecutionResult) {
	const totalSteps = 4

	step, phase := 0, "Monitoring"
	switch result.Status {
	case models.StatusInitializing:
		step, phase = 1, "Initialization"
	case models.StatusCreatingTables:
		step, phase = 2, "Table Creation"
	case models.StatusWaitingForTables:
		step, phase = 3, "Table Activation"
	case models.StatusValidating:
		step, phase = 4, "Validation"
	case models.StatusCompleted:
		step, phase = totalSteps, "Completed"
	case models.StatusFailed:
		phase = "Error Recovery"
	case models.StatusRetrying:
		phase = "Retry"
	}

	if result.Phase == "" {
		result.Phase = phase
	}
	if result.Progress == nil {
		result.Progress = &models.ProgressInfo{
			CurrentStep: step,
			TotalSteps:  totalSteps,
			StepName:    phase,
			Percentage:  step * 100 / totalSteps,
		}
	}

	switch {
	case result.Status == models.StatusCompleted && result.Success:
		result.HealthStatus = "healthy"
	case result.Status == models.StatusCompleted:
		result.HealthStatus = "degraded"
	case result.Status == models.StatusFailed:
		result.HealthStatus = "unhealthy"
	case result.Status == models.StatusRetrying:
		result.HealthStatus = "degraded"
	case inProgress(result.Status):
		if s.now().Sub(result.StartTime) > stuckAfter {
			result.HealthStatus = "degraded"
		} else {
			result.HealthStatus = "provisioning"
		}
	default:
		result.HealthStatus = "unknown"
	}
}
