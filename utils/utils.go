package utils

import (
	"defects-register/models"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-this-in-production"

// GetConfig read the configuration from environment variables or config files
func GetConfig() (*models.Config, error) {
	config, err := Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config, nil
}

// Load initializes and returns the application configuration using Viper
func Load() (*models.Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	return LoadFrom(v)
}

// LoadFromFile loads configuration from an explicit file path
func LoadFromFile(path string) (*models.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return LoadFrom(v)
}

// LoadFrom reads, flattens and validates configuration from a prepared viper instance
func LoadFrom(v *viper.Viper) (*models.Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Config file not found, continue with defaults and env vars
		fmt.Printf("Config file not found (%v), using defaults and environment variables\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	flattenNestedConfig(v)

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v.IsSet("jwt.expires_in") {
		expiresStr := v.GetString("jwt.expires_in")
		if expiresStr != "" {
			expires, err := time.ParseDuration(expiresStr)
			if err != nil {
				return nil, fmt.Errorf("invalid JWT expires_in format: %w", err)
			}
			config.JWTExpiresIn = expires
		}
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("app_name", "Vessel Defects Register")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("app_host", "0.0.0.0")
	v.SetDefault("app_port", "8081")

	// JWT defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expires_in", 30*time.Minute)

	// AWS defaults
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("aws_access_key_id", "")
	v.SetDefault("aws_secret_access_key", "")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "dev")

	// S3 defaults
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_archive_enabled", false)

	// Report defaults
	v.SetDefault("report_top_n", models.DefaultTopN)
	v.SetDefault("report_trend_window_days", 30)
	v.SetDefault("report_footer", models.DefaultReportFooter)
	v.SetDefault("report_repeat_header", false)

	// Worker defaults
	v.SetDefault("worker_enabled", true)
	v.SetDefault("worker_cron_schedule", "@every 1h")
	v.SetDefault("worker_lock_file", "/tmp/defects-register-provisioning.lock")
	v.SetDefault("worker_status_file", "/tmp/defects-register-provisioning.json")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// CORS defaults
	v.SetDefault("cors_origins", []string{"*"})

	// Base Path default
	v.SetDefault("basePath", "/api/v1")

	// setup tables to create
	v.SetDefault("tables", []string{"defects", "user_vessels", "users"})
}

// validate checks if all required configuration is provided
func validate(c *models.Config) error {
	if c.JWTSecret == defaultJWTSecret && c.AppEnv == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production environment")
	}

	if c.S3ArchiveEnabled && c.S3Bucket == "" {
		return fmt.Errorf("s3_bucket must be set when s3_archive_enabled is true")
	}

	if c.ReportTopN < 1 {
		return fmt.Errorf("report_top_n must be at least 1, got %d", c.ReportTopN)
	}

	if c.ReportTrendWindowDays < 1 {
		return fmt.Errorf("report_trend_window_days must be at least 1, got %d", c.ReportTrendWindowDays)
	}

	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		fmt.Println("No AWS credentials provided, assuming IAM role is used")
	}

	return nil
}

// flattenNestedConfig copies nested config.json sections onto the flat keys Config maps
func flattenNestedConfig(v *viper.Viper) {
	nested := map[string]string{
		"app.name":                  "app_name",
		"app.version":               "app_version",
		"app.env":                   "app_env",
		"app.host":                  "app_host",
		"app.port":                  "app_port",
		"jwt.secret":                "jwt_secret",
		"aws.region":                "aws_region",
		"aws.access_key_id":         "aws_access_key_id",
		"aws.secret_access_key":     "aws_secret_access_key",
		"aws.dynamodb_endpoint":     "dynamodb_endpoint",
		"aws.dynamodb_table_prefix": "dynamodb_table_prefix",
		"s3.bucket":                 "s3_bucket",
		"s3.endpoint":               "s3_endpoint",
		"logging.level":             "log_level",
		"logging.format":            "log_format",
		"report.footer":             "report_footer",
		"worker.cron_schedule":      "worker_cron_schedule",
		"worker.lock_file":          "worker_lock_file",
		"worker.status_file":        "worker_status_file",
	}
	for from, to := range nested {
		if v.IsSet(from) {
			v.Set(to, v.GetString(from))
		}
	}

	if v.IsSet("s3.archive_enabled") {
		v.Set("s3_archive_enabled", v.GetBool("s3.archive_enabled"))
	}
	if v.IsSet("report.top_n") {
		v.Set("report_top_n", v.GetInt("report.top_n"))
	}
	if v.IsSet("report.trend_window_days") {
		v.Set("report_trend_window_days", v.GetInt("report.trend_window_days"))
	}
	if v.IsSet("report.repeat_header") {
		v.Set("report_repeat_header", v.GetBool("report.repeat_header"))
	}
	if v.IsSet("worker.enabled") {
		v.Set("worker_enabled", v.GetBool("worker.enabled"))
	}
	if v.IsSet("cors.origins") {
		v.Set("cors_origins", v.GetStringSlice("cors.origins"))
	}
}

// PrintPrettyJSON takes any struct or map and prints it as pretty JSON
func PrintPrettyJSON(data interface{}) string {
	prettyJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		fmt.Println("Failed to generate JSON:", err)
		return ""
	}
	return string(prettyJSON)
}

// GenerateUUID returns a new UUID string
func GenerateUUID() string {
	return uuid.New().String()
}

// HashPassword hashes a plain text password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a hashed password with a plain text password.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// NewValidator returns a validator that reports fields by their json names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}
