package models

import "time"

// Config holds all configuration for the application
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// AWS
	AWSRegion           string `mapstructure:"aws_region"`
	AWSAccessKeyID      string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey  string `mapstructure:"aws_secret_access_key"`
	DynamoDBEndpoint    string `mapstructure:"dynamodb_endpoint"`
	DynamoDBTablePrefix string `mapstructure:"dynamodb_table_prefix"`

	// S3 report archive
	S3Bucket         string `mapstructure:"s3_bucket"`
	S3Endpoint       string `mapstructure:"s3_endpoint"`
	S3ArchiveEnabled bool   `mapstructure:"s3_archive_enabled"`

	// Reports
	ReportTopN             int    `mapstructure:"report_top_n"`
	ReportTrendWindowDays  int    `mapstructure:"report_trend_window_days"`
	ReportFooter           string `mapstructure:"report_footer"`
	ReportRepeatHeaderBand bool   `mapstructure:"report_repeat_header"`

	// Worker
	WorkerEnabled      bool   `mapstructure:"worker_enabled"`
	WorkerCronSchedule string `mapstructure:"worker_cron_schedule"`
	WorkerLockFile     string `mapstructure:"worker_lock_file"`
	WorkerStatusFile   string `mapstructure:"worker_status_file"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Base Path
	BasePath string `mapstructure:"basePath"`

	Tables []string `mapstructure:"tables"`
}

// TableName returns the prefixed DynamoDB table name for a base name
func (c *Config) TableName(base string) string {
	if c.DynamoDBTablePrefix == "" {
		return base
	}
	return c.DynamoDBTablePrefix + "_" + base
}

// TrendWindow returns the configured trend period length
func (c *Config) TrendWindow() time.Duration {
	if c.ReportTrendWindowDays <= 0 {
		return DefaultTrendWindow
	}
	return time.Duration(c.ReportTrendWindowDays) * 24 * time.Hour
}
