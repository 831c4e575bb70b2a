package models

// KeyType is the DynamoDB scalar type of a key attribute
type KeyType int

const (
	StringType KeyType = iota
	NumberType
	BinaryType
)

// QueryConfig describes a single-key lookup against a table or one of its indexes
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   KeyType

	// ExcludeFlag names a boolean attribute; items where it is true are filtered out server side.
	// Soft-deleted defects are dropped this way.
	ExcludeFlag string
}
