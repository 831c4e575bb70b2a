package dal

import (
	"context"
	"defects-register/models"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DatabaseClientInterface defines the contract for database operations
type DatabaseClientInterface interface {
	// Core operations
	GetItem(ctx context.Context, q models.QueryConfig, result interface{}) (bool, error)
	PutItem(ctx context.Context, tableName string, item interface{}) error
	UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error

	// Index queries
	QueryByIndex(ctx context.Context, q models.QueryConfig, results interface{}) error

	// Table management operations
	TableManagerInterface
}

// TableManagerInterface is the table administration subset used by the provisioning worker
type TableManagerInterface interface {
	CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error
	DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error)
	DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput) error
}

// ObjectStoreInterface stores generated report files
type ObjectStoreInterface interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
}
