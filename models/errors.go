package models

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorizedVessel = errors.New("vessel is not assigned to user")
	ErrDefectNotFound     = errors.New("defect not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRender             = errors.New("render failed")
	ErrFatalGeneration    = errors.New("document generation failed")

	ErrProvisioningRunning  = errors.New("provisioning is running")
	ErrProvisioningDisabled = errors.New("provisioning worker is disabled")
)

// Error types reported in APIError.Type
const (
	ErrorTypeValidation     = "ValidationError"
	ErrorTypeAuthentication = "AuthenticationError"
	ErrorTypeAuthorization  = "AuthorizationError"
	ErrorTypeNotFound       = "NotFound"
	ErrorTypeDatabase       = "DatabaseError"
	ErrorTypeGeneration     = "FatalGenerationError"
	ErrorTypeConflict       = "ConflictError"
	ErrorTypeWorker         = "WorkerError"
)
