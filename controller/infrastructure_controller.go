package controller

import (
	"defects-register/models"
	"defects-register/services"
	"defects-register/utils/logger"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

type InfrastructureController struct {
	service services.InfrastructureServiceInterface
	logger  logger.Logger
}

func NewInfrastructureController(service services.InfrastructureServiceInterface, logger logger.Logger) *InfrastructureController {
	return &InfrastructureController{
		service: service,
		logger:  logger,
	}
}

// GetWorkerStatus handles GET /api/v1/infrastructure/worker/status
// @Summary Get table provisioning status
// @Description Status of the last provisioning run including phase, progress and health
// @Tags Infrastructure
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ExecutionResult} "Worker status retrieved successfully"
// @Success 202 {object} models.APIResponse{data=models.ExecutionResult} "Provisioning in progress"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 403 {object} models.APIResponse "Forbidden - Admin access required"
// @Failure 404 {object} models.APIResponse "Not Found - Provisioning has never run"
// @Failure 503 {object} models.APIResponse "Service Unavailable - Provisioning failed"
// @Router /infrastructure/worker/status [get]
func (h *InfrastructureController) GetWorkerStatus(c *gin.Context) {
	workerStatus, err := h.service.GetWorkerStatus(c.Request.Context())
	if err != nil {
		h.workerError(c, "Failed to retrieve worker status", err, nil)
		return
	}

	httpStatus, apiStatus := mapWorkerStatusToHTTP(workerStatus)
	c.JSON(httpStatus, models.APIResponse{
		Status:  apiStatus,
		Code:    httpStatus,
		Message: statusMessage(workerStatus),
		Data:    workerStatus,
	})
}

// RestartWorker handles POST /api/v1/infrastructure/worker/restart
// @Summary Rerun table provisioning
// @Description Runs provisioning now. Without force a run in progress is left alone.
// @Tags Infrastructure
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ProvisioningRunRequest false "Restart options"
// @Success 200 {object} models.APIResponse{data=models.ProvisioningRunResult} "Provisioning rerun completed"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 403 {object} models.APIResponse "Forbidden - Admin access required"
// @Failure 409 {object} models.APIResponse "Conflict - Provisioning is running and force=false"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Provisioning failed"
// @Router /infrastructure/worker/restart [post]
func (h *InfrastructureController) RestartWorker(c *gin.Context) {
	var restartRequest models.ProvisioningRunRequest
	if err := c.ShouldBindJSON(&restartRequest); err != nil {
		// no body means no force
		restartRequest = models.ProvisioningRunRequest{}
	}

	result, err := h.service.RestartWorker(c.Request.Context(), restartRequest.Force)
	if err != nil {
		h.workerError(c, "Failed to restart worker", err, result)
		return
	}

	h.logger.Info("Provisioning rerun completed")
	respondOK(c, http.StatusOK, "Provisioning rerun completed", result)
}

// CheckWorkerHealth handles GET /api/v1/infrastructure/worker/health
// @Summary Check provisioning health
// @Tags Infrastructure
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Worker health check completed"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 403 {object} models.APIResponse "Forbidden - Admin access required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to check worker health"
// @Router /infrastructure/worker/health [get]
func (h *InfrastructureController) CheckWorkerHealth(c *gin.Context) {
	healthy, reason, err := h.service.IsWorkerHealthy()
	if err != nil {
		h.workerError(c, "Failed to check worker health", err, nil)
		return
	}

	healthStatus := "healthy"
	if !healthy {
		healthStatus = "unhealthy"
	}

	respondOK(c, http.StatusOK, "Worker health check completed", map[string]interface{}{
		"healthy": healthy,
		"status":  healthStatus,
		"reason":  reason,
	})
}

// AutoRestartWorker handles POST /api/v1/infrastructure/worker/auto-restart
// @Summary Rerun provisioning if unhealthy
// @Tags Infrastructure
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ProvisioningRunResult} "Auto-restart check completed"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 403 {object} models.APIResponse "Forbidden - Admin access required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to auto-restart worker"
// @Router /infrastructure/worker/auto-restart [post]
func (h *InfrastructureController) AutoRestartWorker(c *gin.Context) {
	result, err := h.service.AutoRestartIfNeeded(c.Request.Context())
	if err != nil {
		h.workerError(c, "Failed to auto-restart worker", err, result)
		return
	}

	message := "Auto-restart check completed"
	switch result.Status {
	case "not_needed":
		message = "Tables are healthy, no restart needed"
	case "completed":
		message = "Provisioning was unhealthy and has been rerun"
	}

	h.logger.Infof("Auto-restart check completed: %s", result.Status)
	respondOK(c, http.StatusOK, message, result)
}

// workerError answers a failed provisioning call; result, when present, is returned as data
func (h *InfrastructureController) workerError(c *gin.Context, message string, err error, result *models.ProvisioningRunResult) {
	code, errType := http.StatusInternalServerError, models.ErrorTypeWorker
	details := err.Error()
	switch {
	case errors.Is(err, os.ErrNotExist):
		code, details = http.StatusNotFound, "Provisioning has never run"
	case errors.Is(err, models.ErrProvisioningRunning):
		code, errType = http.StatusConflict, models.ErrorTypeConflict
		message, details = "Provisioning is currently running", "Use force=true to restart anyway"
	case errors.Is(err, models.ErrProvisioningDisabled):
		code = http.StatusServiceUnavailable
	}

	if code >= http.StatusInternalServerError {
		h.logger.Errorf("%s: %v", message, err)
	} else {
		h.logger.Warnf("%s: %v", message, err)
	}

	resp := models.Failure(code, message, errType, details)
	if result != nil {
		resp.Data = result
	}
	c.JSON(code, resp)
}

// mapWorkerStatusToHTTP maps the provisioning status onto an HTTP status and an APIResponse status
func mapWorkerStatusToHTTP(ws *models.ExecutionResult) (int, string) {
	switch ws.Status {
	case models.StatusCompleted:
		if ws.Success {
			return http.StatusOK, "success"
		}
		return http.StatusOK, "warning"
	case models.StatusFailed:
		return http.StatusServiceUnavailable, "error"
	case models.StatusInitializing, models.StatusCreatingTables,
		models.StatusWaitingForTables, models.StatusValidating:
		return http.StatusAccepted, "in_progress"
	case models.StatusRetrying:
		return http.StatusAccepted, "retrying"
	}
	return http.StatusOK, "info"
}

func statusMessage(ws *models.ExecutionResult) string {
	switch ws.Status {
	case models.StatusCompleted:
		if ws.Success {
			return "Tables are provisioned and healthy"
		}
		return "Provisioning completed with warnings"
	case models.StatusFailed:
		return "Provisioning failed, manual intervention may be required"
	case models.StatusInitializing:
		return "Initializing table provisioning"
	case models.StatusCreatingTables:
		return "Creating DynamoDB tables"
	case models.StatusWaitingForTables:
		return "Waiting for DynamoDB tables to become active"
	case models.StatusValidating:
		return "Validating table schemas"
	case models.StatusRetrying:
		return fmt.Sprintf("Retrying provisioning (attempt %d)", ws.RetryCount+1)
	case models.StatusIdle:
		return "Provisioning is idle"
	}
	return "Worker status retrieved successfully"
}
