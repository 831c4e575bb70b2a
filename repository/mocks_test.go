package repository

import (
	"context"
	"defects-register/models"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/mock"
)

// MockDatabaseClient implements dal.DatabaseClientInterface for testing
type MockDatabaseClient struct {
	mock.Mock
}

func (m *MockDatabaseClient) GetItem(ctx context.Context, q models.QueryConfig, result interface{}) (bool, error) {
	args := m.Called(ctx, q, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockDatabaseClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	args := m.Called(ctx, tableName, item)
	return args.Error(0)
}

func (m *MockDatabaseClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	args := m.Called(ctx, tableName, key, keyValue, updates)
	return args.Error(0)
}

func (m *MockDatabaseClient) QueryByIndex(ctx context.Context, q models.QueryConfig, results interface{}) error {
	args := m.Called(ctx, q, results)
	return args.Error(0)
}

func (m *MockDatabaseClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockDatabaseClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DescribeTableOutput), args.Error(1)
}

func (m *MockDatabaseClient) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// fill copies v into the destination pointer the repository handed to the client
func fill(v interface{}) func(mock.Arguments) {
	return func(args mock.Arguments) {
		raw, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		if err := json.Unmarshal(raw, args.Get(2)); err != nil {
			panic(err)
		}
	}
}
