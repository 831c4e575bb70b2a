package models

import "time"

// WorkerConfig holds configuration for the table provisioning worker
type WorkerConfig struct {
	// Cron schedule
	CronSchedule string `json:"cron_schedule"`

	// Lock settings
	LockTimeout time.Duration `json:"lock_timeout"`

	// Retry settings
	MaxRetries        int           `json:"max_retries"`
	RetryDelay        time.Duration `json:"retry_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	ActiveWaitTimeout time.Duration `json:"active_wait_timeout"`

	// Environment settings
	Environment    string   `json:"environment"`
	RequiredTables []string `json:"required_tables"`

	// Paths
	LockFilePath   string `json:"lock_file_path"`
	StatusFilePath string `json:"status_file_path"`

	// Feature flags
	DryRun        bool `json:"dry_run"`
	ForceRecreate bool `json:"force_recreate"`
	RunOnce       bool `json:"run_once"`
}

// LockInfo is the content of the provisioning lock file
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// WorkerStatus represents the current status of the provisioning worker
type WorkerStatus string

const (
	StatusIdle             WorkerStatus = "idle"
	StatusInitializing     WorkerStatus = "initializing"
	StatusCreatingTables   WorkerStatus = "creating_tables"
	StatusWaitingForTables WorkerStatus = "waiting_for_tables"
	StatusValidating       WorkerStatus = "validating"
	StatusCompleted        WorkerStatus = "completed"
	StatusFailed           WorkerStatus = "failed"
	StatusRetrying         WorkerStatus = "retrying"
)

// ExecutionResult is persisted to the status file after every provisioning step
type ExecutionResult struct {
	Success   bool          `json:"success"`
	Status    WorkerStatus  `json:"status"`
	Phase     string        `json:"phase,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration"`

	Progress      *ProgressInfo `json:"progress,omitempty"`
	TablesCreated []TableStatus `json:"tables_created"`

	ErrorMessage string     `json:"error_message,omitempty"`
	LastError    *ErrorInfo `json:"last_error,omitempty"`
	RetryCount   int        `json:"retry_count"`

	Environment  string `json:"environment"`
	HealthStatus string `json:"health_status,omitempty"` // healthy, unhealthy, provisioning
}

// ProgressInfo tracks execution progress
type ProgressInfo struct {
	CurrentStep int    `json:"current_step"`
	TotalSteps  int    `json:"total_steps"`
	StepName    string `json:"step_name"`
	Percentage  int    `json:"percentage"`
}

// TableStatus records a table touched by the worker
type TableStatus struct {
	Name           string     `json:"name"`
	Status         string     `json:"status"` // CREATING, ACTIVE, EXISTS
	CreatedAt      time.Time  `json:"created_at"`
	BecameActiveAt *time.Time `json:"became_active_at,omitempty"`
	IndexCount     int        `json:"index_count"`
}

// ErrorInfo provides structured error information
type ErrorInfo struct {
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Recoverable bool      `json:"recoverable"`
}

// ProvisioningRunResult reports an on-demand provisioning run
type ProvisioningRunResult struct {
	ServiceName string        `json:"service_name"`
	Status      string        `json:"status"` // in_progress, completed, failed, not_needed
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time,omitempty"`
	Output      string        `json:"output,omitempty"`
	Error       string        `json:"error,omitempty"`
	Tables      []TableStatus `json:"tables,omitempty"`
}

// ProvisioningRunRequest is the body of the restart endpoint
type ProvisioningRunRequest struct {
	Force bool `json:"force"` // rerun even while a run is in progress
}
