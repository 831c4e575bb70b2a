package worker

import (
	"context"
	"defects-register/models"
	"defects-register/utils/logger"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, tables *MockTableManager) *Worker {
	w, err := NewWorker(tables, testConfig(), testWorkerConfig(t, "users"), logger.Nop())
	require.NoError(t, err)
	w.provisioner.pollInterval = time.Millisecond
	w.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return w
}

func TestRunNowProvisions(t *testing.T) {
	tables := &MockTableManager{}
	tables.On("DescribeTable", mock.Anything, "test_users").Return(nil, errNotFound).Once()
	tables.On("CreateTable", mock.Anything, createFor("test_users")).Return(nil).Once()
	tables.On("DescribeTable", mock.Anything, "test_users").Return(describe(types.TableStatusActive, "email-index"), nil).Twice()

	w := newTestWorker(t, tables)
	require.NoError(t, w.RunNow(context.Background()))

	status, err := w.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status.Status)
	assert.True(t, status.Success)
	assert.Equal(t, "test", status.Environment)
	tables.AssertExpectations(t)

	// the lock is released after the run
	_, err = w.locks.readLockFile()
	assert.Error(t, err)
}

func TestRunNowRetriesThenFails(t *testing.T) {
	tables := &MockTableManager{}
	tables.On("DescribeTable", mock.Anything, "test_users").Return(nil, errors.New("throttled")).Times(3)

	w := newTestWorker(t, tables)
	var delays []time.Duration
	w.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	err := w.RunNow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)

	status, err := w.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, status.Status)
	assert.Equal(t, 2, status.RetryCount)
	tables.AssertExpectations(t)
}

func TestRunNowRefusesWhenLockHeldElsewhere(t *testing.T) {
	tables := &MockTableManager{}
	w := newTestWorker(t, tables)

	_, err := w.locks.AcquireLock("another-host")
	require.NoError(t, err)

	err = w.RunNow(context.Background())
	assert.True(t, errors.Is(err, ErrLockHeld))
	tables.AssertNotCalled(t, "DescribeTable", mock.Anything, mock.Anything)
}

func TestStartAndStop(t *testing.T) {
	tables := &MockTableManager{}
	tables.On("DescribeTable", mock.Anything, "test_users").Return(describe(types.TableStatusActive, "email-index"), nil)

	w := newTestWorker(t, tables)
	require.NoError(t, w.Start())
	assert.Error(t, w.Start())

	assert.Eventually(t, func() bool {
		completed, err := w.status.IsSetupCompleted()
		return err == nil && completed
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		_, err := w.locks.readLockFile()
		return err != nil
	}, time.Second, 5*time.Millisecond)

	w.Stop()
	w.Stop()
	assert.Error(t, w.Start())
}

func TestCalculateRetryDelay(t *testing.T) {
	w := newTestWorker(t, &MockTableManager{})
	w.workerConfig.RetryDelay = time.Second

	assert.Equal(t, time.Second, w.calculateRetryDelay(0))
	assert.Equal(t, 4*time.Second, w.calculateRetryDelay(2))
	assert.Equal(t, 5*time.Minute, w.calculateRetryDelay(20))
}

func TestValidateWorkerConfig(t *testing.T) {
	valid := func() *models.WorkerConfig { return testWorkerConfig(t, "defects") }
	require.NoError(t, validateWorkerConfig(valid()))

	tests := []struct {
		name   string
		mutate func(*models.WorkerConfig)
	}{
		{"no environment", func(c *models.WorkerConfig) { c.Environment = "" }},
		{"no lock timeout", func(c *models.WorkerConfig) { c.LockTimeout = 0 }},
		{"negative retries", func(c *models.WorkerConfig) { c.MaxRetries = -1 }},
		{"flat backoff", func(c *models.WorkerConfig) { c.BackoffMultiplier = 1 }},
		{"no tables", func(c *models.WorkerConfig) { c.RequiredTables = nil }},
		{"unknown table", func(c *models.WorkerConfig) { c.RequiredTables = []string{"crew"} }},
		{"bad schedule", func(c *models.WorkerConfig) { c.CronSchedule = "every tuesday" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateWorkerConfig(cfg))
		})
	}
	assert.Error(t, validateWorkerConfig(nil))
}

func TestNewWorkerConfigDefaults(t *testing.T) {
	wc := NewWorkerConfig(&models.Config{AppEnv: "production"})
	assert.Equal(t, "@every 1h", wc.CronSchedule)
	assert.Equal(t, []string{"defects", "user_vessels", "users"}, wc.RequiredTables)
	assert.False(t, wc.RunOnce)
	assert.NoError(t, validateWorkerConfig(wc))

	dev := NewWorkerConfig(&models.Config{AppEnv: "development", WorkerCronSchedule: "@every 10m", WorkerStatusFile: "/var/run/status.json"})
	assert.Equal(t, "@every 10m", dev.CronSchedule)
	assert.Equal(t, "/var/run/status.json", dev.StatusFilePath)
	assert.True(t, dev.RunOnce)
}
