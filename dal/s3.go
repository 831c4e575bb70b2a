package dal

import (
	"context"
	"defects-register/models"
	"defects-register/utils/logger"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 SDK client used by S3ObjectStore
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ObjectStore archives report files in a single bucket
type S3ObjectStore struct {
	client S3API
	bucket string
	logger logger.Logger
}

// NewS3ObjectStore creates an S3 backed object store; a custom endpoint switches to path-style addressing
func NewS3ObjectStore(ctx context.Context, cfg *models.Config, log logger.Logger) (*S3ObjectStore, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Infof("S3 object store initialized for bucket %s", cfg.S3Bucket)
	return NewS3ObjectStoreWithAPI(client, cfg.S3Bucket, log), nil
}

// NewS3ObjectStoreWithAPI wraps an existing SDK client
func NewS3ObjectStoreWithAPI(api S3API, bucket string, log logger.Logger) *S3ObjectStore {
	return &S3ObjectStore{client: api, bucket: bucket, logger: log}
}

// PutObject uploads body under key, replacing any existing object
func (s *S3ObjectStore) PutObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Errorf("Failed to put object %s: %v", key, err)
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}
