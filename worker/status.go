package worker

import (
	"defects-register/models"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// provisioningSteps is the number of progress steps in one run
const provisioningSteps = 4

// StatusManager persists the current provisioning run to a JSON status file
type StatusManager struct {
	statusFilePath string
	mu             sync.Mutex
	now            func() time.Time
}

// NewStatusManager creates a new status manager
func NewStatusManager(statusPath string) *StatusManager {
	return &StatusManager{statusFilePath: statusPath, now: time.Now}
}

// Begin starts a fresh run record
func (sm *StatusManager) Begin(env string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.save(&models.ExecutionResult{
		Status:        models.StatusInitializing,
		StartTime:     sm.now(),
		TablesCreated: []models.TableStatus{},
		Environment:   env,
		Progress:      progress(1, "Initializing"),
	})
}

// UpdateProgress moves the run to status at the given step
func (sm *StatusManager) UpdateProgress(status models.WorkerStatus, step int, stepName string) error {
	return sm.modify(func(r *models.ExecutionResult) {
		r.Status = status
		r.Progress = progress(step, stepName)
	})
}

// RecordTable adds or replaces the entry for a table touched by the run
func (sm *StatusManager) RecordTable(table models.TableStatus) error {
	return sm.modify(func(r *models.ExecutionResult) {
		for i := range r.TablesCreated {
			if r.TablesCreated[i].Name == table.Name {
				r.TablesCreated[i] = table
				return
			}
		}
		r.TablesCreated = append(r.TablesCreated, table)
	})
}

// MarkRetrying records a failed attempt that will be retried
func (sm *StatusManager) MarkRetrying(err error, retryCount int) error {
	return sm.modify(func(r *models.ExecutionResult) {
		r.Status = models.StatusRetrying
		r.RetryCount = retryCount
		r.LastError = &models.ErrorInfo{Code: errorCode(err), Message: err.Error(), Timestamp: sm.now(), Recoverable: true}
	})
}

// MarkCompleted marks the run as successful
func (sm *StatusManager) MarkCompleted() error {
	return sm.modify(func(r *models.ExecutionResult) {
		r.Success = true
		r.Status = models.StatusCompleted
		r.ErrorMessage = ""
		r.Progress = progress(provisioningSteps, "Completed")
		sm.finish(r)
	})
}

// MarkFailed marks the run as failed
func (sm *StatusManager) MarkFailed(err error) error {
	return sm.modify(func(r *models.ExecutionResult) {
		r.Success = false
		r.Status = models.StatusFailed
		r.ErrorMessage = err.Error()
		r.LastError = &models.ErrorInfo{Code: errorCode(err), Message: err.Error(), Timestamp: sm.now()}
		sm.finish(r)
	})
}

// LoadStatus reads the last persisted run
func (sm *StatusManager) LoadStatus() (*models.ExecutionResult, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.load()
}

// IsSetupCompleted checks whether the last run finished successfully
func (sm *StatusManager) IsSetupCompleted() (bool, error) {
	status, err := sm.LoadStatus()
	if err != nil {
		return false, err
	}
	return status.Status == models.StatusCompleted && status.Success, nil
}

func (sm *StatusManager) modify(fn func(*models.ExecutionResult)) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	current, err := sm.load()
	if err != nil {
		current = &models.ExecutionResult{StartTime: sm.now(), TablesCreated: []models.TableStatus{}}
	}
	fn(current)
	return sm.save(current)
}

func (sm *StatusManager) finish(r *models.ExecutionResult) {
	now := sm.now()
	r.EndTime = &now
	r.Duration = now.Sub(r.StartTime)
}

func (sm *StatusManager) load() (*models.ExecutionResult, error) {
	data, err := os.ReadFile(sm.statusFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var result models.ExecutionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &result, nil
}

func (sm *StatusManager) save(result *models.ExecutionResult) error {
	if err := os.MkdirAll(filepath.Dir(sm.statusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	return writeFileAtomic(sm.statusFilePath, data)
}

func progress(step int, name string) *models.ProgressInfo {
	return &models.ProgressInfo{
		CurrentStep: step,
		TotalSteps:  provisioningSteps,
		StepName:    name,
		Percentage:  step * 100 / provisioningSteps,
	}
}
