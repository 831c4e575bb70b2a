package worker

import (
	"context"
	"defects-register/dal"
	"defects-register/infrastructure"
	"defects-register/models"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// runTimeout bounds a single provisioning run including retries
const runTimeout = 15 * time.Minute

// Worker keeps the register's tables provisioned on a cron schedule
type Worker struct {
	config       *models.Config
	workerConfig *models.WorkerConfig
	logger       logger.Logger

	provisioner *Provisioner
	locks       *LockManager
	status      *StatusManager
	cron        *cron.Cron
	ownerID     string
	sleep       func(ctx context.Context, d time.Duration) error

	runMu   sync.Mutex
	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerConfig derives the worker settings from the application config and environment flags
func NewWorkerConfig(cfg *models.Config) *models.WorkerConfig {
	schedule := cfg.WorkerCronSchedule
	if schedule == "" {
		schedule = getCronScheduleForEnvironment(cfg.AppEnv)
	}

	tables := cfg.Tables
	if len(tables) == 0 {
		tables = infrastructure.BaseTables()
	}

	lockPath := cfg.WorkerLockFile
	if lockPath == "" {
		lockPath = filepath.Join(os.TempDir(), fmt.Sprintf("defects-register-provisioning-%s.lock", cfg.AppEnv))
	}
	statusPath := cfg.WorkerStatusFile
	if statusPath == "" {
		statusPath = filepath.Join(os.TempDir(), fmt.Sprintf("defects-register-status-%s.json", cfg.AppEnv))
	}

	return &models.WorkerConfig{
		CronSchedule:      schedule,
		LockTimeout:       30 * time.Minute,
		MaxRetries:        3,
		RetryDelay:        2 * time.Second,
		BackoffMultiplier: 2.0,
		ActiveWaitTimeout: 5 * time.Minute,
		Environment:       cfg.AppEnv,
		RequiredTables:    tables,
		LockFilePath:      lockPath,
		StatusFilePath:    statusPath,
		DryRun:            os.Getenv("INFRASTRUCTURE_DRY_RUN") == "true",
		ForceRecreate:     os.Getenv("INFRASTRUCTURE_FORCE_RECREATE") == "true",
		RunOnce:           cfg.AppEnv == "development",
	}
}

func NewWorker(tables dal.TableManagerInterface, cfg *models.Config, workerConfig *models.WorkerConfig, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if tables == nil {
		return nil, fmt.Errorf("table manager cannot be nil")
	}
	if err := validateWorkerConfig(workerConfig); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}

	log.Infof("Provisioning worker configured: schedule=%s tables=%v run_once=%v",
		workerConfig.CronSchedule, workerConfig.RequiredTables, workerConfig.RunOnce)

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		config:       cfg,
		workerConfig: workerConfig,
		logger:       log,
		provisioner:  NewProvisioner(tables, cfg, workerConfig, log),
		locks:        NewLockManager(workerConfig.LockFilePath, workerConfig.LockTimeout, workerConfig.Environment),
		status:       NewStatusManager(workerConfig.StatusFilePath),
		cron:         cron.New(),
		ownerID:      fmt.Sprintf("worker-%s-%s", hostname, uuid.NewString()[:8]),
		sleep:        sleepContext,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start schedules provisioning runs and kicks off the first one in the background
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("worker is already running")
	}
	select {
	case <-w.ctx.Done():
		return fmt.Errorf("worker context is cancelled, cannot start")
	default:
	}

	if !w.workerConfig.RunOnce {
		if err := w.cron.AddFunc(w.workerConfig.CronSchedule, w.scheduledRun); err != nil {
			return fmt.Errorf("failed to add cron job: %w", err)
		}
		w.cron.Start()
	}
	w.running = true

	w.logger.Infof("Provisioning worker %s started", w.ownerID)
	go w.scheduledRun()
	return nil
}

// Stop cancels any in-flight run and stops the schedule
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.cancel()
	w.cron.Stop()
	w.running = false
	w.logger.Info("Provisioning worker stopped")
}

// RunNow runs provisioning synchronously. It satisfies the on-demand trigger used by the admin API.
func (w *Worker) RunNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	return w.run(ctx)
}

// GetStatus returns the last persisted run
func (w *Worker) GetStatus() (*models.ExecutionResult, error) {
	return w.status.LoadStatus()
}

func (w *Worker) scheduledRun() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Provisioning run panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(w.ctx, runTimeout)
	defer cancel()

	if err := w.run(ctx); err != nil {
		if errors.Is(err, ErrLockHeld) {
			w.logger.Infof("Skipping provisioning run: %v", err)
			return
		}
		w.logger.Errorf("Provisioning run failed: %v", err)
	}
}

// run executes one provisioning run under the lock, retrying failed attempts with backoff
func (w *Worker) run(ctx context.Context) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if err := w.locks.CleanupExpiredLocks(); err != nil {
		w.logger.Warnf("Failed to clean up expired lock: %v", err)
	}
	lock, err := w.locks.AcquireLock(w.ownerID)
	if err != nil {
		return err
	}
	defer func() {
		if err := w.locks.ReleaseLock(lock); err != nil {
			w.logger.Warnf("Failed to release provisioning lock: %v", err)
		}
	}()

	if err := w.status.Begin(w.workerConfig.Environment); err != nil {
		w.logger.Warnf("Failed to record provisioning start: %v", err)
	}

	var lastErr error
	for attempt := 0; attempt <= w.workerConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := w.calculateRetryDelay(attempt - 1)
			w.logger.Warnf("Provisioning attempt %d/%d failed, retrying in %v: %v",
				attempt, w.workerConfig.MaxRetries+1, delay, lastErr)
			if err := w.status.MarkRetrying(lastErr, attempt); err != nil {
				w.logger.Warnf("Failed to record retry: %v", err)
			}
			if err := w.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		lastErr = w.provisioner.Ensure(ctx, w.status)
		if lastErr == nil {
			w.logger.Info("Tables are provisioned")
			return w.status.MarkCompleted()
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err := w.status.MarkFailed(lastErr); err != nil {
		w.logger.Warnf("Failed to record provisioning failure: %v", err)
	}
	return lastErr
}

// calculateRetryDelay applies exponential backoff to the base retry delay
func (w *Worker) calculateRetryDelay(retryCount int) time.Duration {
	delay := float64(w.workerConfig.RetryDelay)
	for range retryCount {
		delay *= w.workerConfig.BackoffMultiplier
	}
	if ceiling := float64(5 * time.Minute); delay > ceiling {
		delay = ceiling
	}
	return time.Duration(delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config == nil {
		return fmt.Errorf("worker config cannot be nil")
	}
	if config.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if config.LockTimeout <= 0 {
		return fmt.Errorf("lock timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if config.BackoffMultiplier <= 1.0 {
		return fmt.Errorf("backoff multiplier must be greater than 1.0")
	}
	if config.ActiveWaitTimeout <= 0 {
		return fmt.Errorf("active wait timeout must be positive")
	}
	if len(config.RequiredTables) == 0 {
		return fmt.Errorf("at least one required table must be specified")
	}
	for _, base := range config.RequiredTables {
		if _, err := infrastructure.GetTable(base, base); err != nil {
			return err
		}
	}
	if config.LockFilePath == "" {
		return fmt.Errorf("lock file path is required")
	}
	if config.StatusFilePath == "" {
		return fmt.Errorf("status file path is required")
	}
	if config.CronSchedule != "" {
		if _, err := cron.Parse(config.CronSchedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", config.CronSchedule, err)
		}
	}
	return nil
}

// getCronScheduleForEnvironment returns environment-specific cron schedules
func getCronScheduleForEnvironment(env string) string {
	switch env {
	case "development":
		return "0 */5 * * * *"
	case "testing":
		return "0 */15 * * * *"
	default:
		return "@every 1h"
	}
}
