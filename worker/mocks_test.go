package worker

import (
	"context"
	"defects-register/models"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/mock"
)

// MockTableManager implements dal.TableManagerInterface for testing
type MockTableManager struct {
	mock.Mock
}

func (m *MockTableManager) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockTableManager) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

func (m *MockTableManager) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error {
	return m.Called(ctx, input).Error(0)
}

func describe(status types.TableStatus, indexes ...string) *dynamodb.DescribeTableOutput {
	table := &types.TableDescription{TableName: aws.String("t"), TableStatus: status}
	for _, name := range indexes {
		table.GlobalSecondaryIndexes = append(table.GlobalSecondaryIndexes, types.GlobalSecondaryIndexDescription{IndexName: aws.String(name)})
	}
	return &dynamodb.DescribeTableOutput{Table: table}
}

var errNotFound = &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}

func createFor(name string) interface{} {
	return mock.MatchedBy(func(input *dynamodb.CreateTableInput) bool {
		return aws.ToString(input.TableName) == name
	})
}

func testWorkerConfig(t *testing.T, tables ...string) *models.WorkerConfig {
	dir := t.TempDir()
	return &models.WorkerConfig{
		CronSchedule:      "@every 1h",
		LockTimeout:       time.Minute,
		MaxRetries:        2,
		RetryDelay:        time.Millisecond,
		BackoffMultiplier: 2,
		ActiveWaitTimeout: time.Second,
		Environment:       "test",
		RequiredTables:    tables,
		LockFilePath:      filepath.Join(dir, "provisioning.lock"),
		StatusFilePath:    filepath.Join(dir, "status.json"),
	}
}

func testConfig() *models.Config {
	return &models.Config{AppEnv: "test", DynamoDBTablePrefix: "test"}
}
