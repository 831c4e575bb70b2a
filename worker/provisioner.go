package worker

import (
	"context"
	"defects-register/dal"
	"defects-register/infrastructure"
	"defects-register/models"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// Provisioner creates the register's DynamoDB tables from the embedded schema
type Provisioner struct {
	tables        dal.TableManagerInterface
	config        *models.Config
	workerConfig  *models.WorkerConfig
	logger        logger.Logger
	pollInterval  time.Duration
	activeTimeout time.Duration
	now           func() time.Time
}

func NewProvisioner(tables dal.TableManagerInterface, cfg *models.Config, workerConfig *models.WorkerConfig, log logger.Logger) *Provisioner {
	return &Provisioner{
		tables:        tables,
		config:        cfg,
		workerConfig:  workerConfig,
		logger:        log,
		pollInterval:  2 * time.Second,
		activeTimeout: workerConfig.ActiveWaitTimeout,
		now:           time.Now,
	}
}

// Ensure runs the create, wait and validate steps, recording progress in status
func (p *Provisioner) Ensure(ctx context.Context, status *StatusManager) error {
	bases := p.workerConfig.RequiredTables

	if err := status.UpdateProgress(models.StatusCreatingTables, 2, "Creating tables"); err != nil {
		p.logger.Warnf("Failed to record progress: %v", err)
	}

	var pending []string
	for _, base := range bases {
		name := p.config.TableName(base)
		created, err := p.ensureTable(ctx, base, name)
		if err != nil {
			return err
		}

		entry := models.TableStatus{Name: name, Status: "EXISTS", CreatedAt: p.now(), IndexCount: len(infrastructure.IndexNames(base))}
		if created {
			entry.Status = "CREATING"
			pending = append(pending, name)
		}
		if err := status.RecordTable(entry); err != nil {
			p.logger.Warnf("Failed to record table %s: %v", name, err)
		}
	}

	if p.workerConfig.DryRun {
		p.logger.Info("Dry run, skipping wait and validation")
		return nil
	}

	if err := status.UpdateProgress(models.StatusWaitingForTables, 3, "Waiting for tables"); err != nil {
		p.logger.Warnf("Failed to record progress: %v", err)
	}
	for _, name := range pending {
		if err := p.waitForActive(ctx, name); err != nil {
			return err
		}
		active := p.now()
		if err := status.RecordTable(models.TableStatus{Name: name, Status: string(types.TableStatusActive), CreatedAt: active, BecameActiveAt: &active}); err != nil {
			p.logger.Warnf("Failed to record table %s: %v", name, err)
		}
	}

	if err := status.UpdateProgress(models.StatusValidating, 4, "Validating tables"); err != nil {
		p.logger.Warnf("Failed to record progress: %v", err)
	}
	return p.validate(ctx, bases)
}

// ensureTable creates the table when it does not exist and reports whether it did so
func (p *Provisioner) ensureTable(ctx context.Context, base, name string) (bool, error) {
	exists, err := p.tableExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to describe table %s: %w", name, err)
	}

	if exists && p.workerConfig.ForceRecreate {
		p.logger.Warnf("Recreating table %s", name)
		if err := p.tables.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)}); err != nil {
			return false, fmt.Errorf("failed to delete table %s: %w", name, err)
		}
		if err := p.waitForDeleted(ctx, name); err != nil {
			return false, err
		}
		exists = false
	}

	if exists {
		p.logger.Infof("Table %s already exists", name)
		return false, nil
	}

	input, err := infrastructure.GetTable(base, name)
	if err != nil {
		return false, err
	}

	if p.workerConfig.DryRun {
		p.logger.Infof("Dry run, would create table %s", name)
		return false, nil
	}

	if err := p.tables.CreateTable(ctx, input); err != nil {
		if isResourceInUse(err) {
			// another worker created it between describe and create
			p.logger.Infof("Table %s is already being created", name)
			return true, nil
		}
		return false, fmt.Errorf("failed to create table %s: %w", name, err)
	}

	p.logger.Infof("Created table %s", name)
	return true, nil
}

func (p *Provisioner) tableExists(ctx context.Context, name string) (bool, error) {
	_, err := p.tables.DescribeTable(ctx, name)
	if err == nil {
		return true, nil
	}
	if isTableNotFound(err) {
		return false, nil
	}
	return false, err
}

func (p *Provisioner) waitForActive(ctx context.Context, name string) error {
	return p.poll(ctx, name, "become active", func() (bool, error) {
		out, err := p.tables.DescribeTable(ctx, name)
		if err != nil {
			if isTableNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return tableActive(out), nil
	})
}

func (p *Provisioner) waitForDeleted(ctx context.Context, name string) error {
	return p.poll(ctx, name, "be deleted", func() (bool, error) {
		exists, err := p.tableExists(ctx, name)
		return !exists, err
	})
}

func (p *Provisioner) poll(ctx context.Context, name, what string, done func() (bool, error)) error {
	deadline := p.now().Add(p.activeTimeout)
	for {
		ok, err := done()
		if err != nil {
			return fmt.Errorf("failed waiting for table %s to %s: %w", name, what, err)
		}
		if ok {
			return nil
		}
		if p.now().After(deadline) {
			return fmt.Errorf("timed out waiting for table %s to %s", name, what)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
}

// validate checks every table is active and carries the indexes the repositories query
func (p *Provisioner) validate(ctx context.Context, bases []string) error {
	for _, base := range bases {
		name := p.config.TableName(base)
		out, err := p.tables.DescribeTable(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to validate table %s: %w", name, err)
		}
		if !tableActive(out) {
			return fmt.Errorf("table %s is not active", name)
		}

		present := make(map[string]bool)
		for _, gsi := range out.Table.GlobalSecondaryIndexes {
			present[aws.ToString(gsi.IndexName)] = true
		}
		for _, index := range infrastructure.IndexNames(base) {
			if !present[index] {
				return fmt.Errorf("table %s is missing index %s", name, index)
			}
		}
	}
	return nil
}

func tableActive(out *dynamodb.DescribeTableOutput) bool {
	return out != nil && out.Table != nil && out.Table.TableStatus == types.TableStatusActive
}

func isTableNotFound(err error) bool {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceNotFoundException"
}

func isResourceInUse(err error) bool {
	var inUse *types.ResourceInUseException
	if errors.As(err, &inUse) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ResourceInUseException"
}

// errorCode returns the AWS error code of err, if it carries one
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	return "ProvisioningError"
}
