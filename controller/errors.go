package controller

import (
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/services"
	"defects-register/utils/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// classify maps a service error onto an HTTP status and APIError type
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, models.ErrorTypeValidation
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrorTypeAuthentication
	case errors.Is(err, models.ErrUnauthorizedVessel):
		return http.StatusForbidden, models.ErrorTypeAuthorization
	case errors.Is(err, models.ErrDefectNotFound), errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, models.ErrorTypeNotFound
	case errors.Is(err, models.ErrProvisioningRunning):
		return http.StatusConflict, models.ErrorTypeConflict
	case errors.Is(err, models.ErrFatalGeneration), errors.Is(err, models.ErrRender):
		return http.StatusInternalServerError, models.ErrorTypeGeneration
	}
	return http.StatusInternalServerError, models.ErrorTypeDatabase
}

func respondError(c *gin.Context, log logger.Logger, message string, err error) {
	code, errType := classify(err)
	if code >= http.StatusInternalServerError {
		log.Errorf("%s: %v", message, err)
	} else {
		log.Warnf("%s: %v", message, err)
	}

	resp := models.Failure(code, message, errType, err.Error())
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		resp.Error.Details = verr.Message
		resp = resp.WithField(verr.Field)
	}
	c.JSON(code, resp)
}

// respondBindError reports a malformed body or query string
func respondBindError(c *gin.Context, log logger.Logger, err error) {
	log.Warnf("Invalid request: %v", err)

	resp := models.Failure(http.StatusBadRequest, "Invalid request", models.ErrorTypeValidation, err.Error())
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		resp.Error.Details = services.FormatFieldError(verrs[0])
		resp = resp.WithField(verrs[0].Field())
	}
	c.JSON(http.StatusBadRequest, resp)
}

func respondOK(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.Success(code, message, data))
}

// callerID returns the user id placed in the context by the auth middleware
func callerID(c *gin.Context) (string, bool) {
	id := c.GetString(middelware.ContextUserID)
	if id == "" {
		c.JSON(http.StatusUnauthorized, models.Failure(http.StatusUnauthorized, "Authentication required",
			models.ErrorTypeAuthentication, "no authenticated user in request context"))
		return "", false
	}
	return id, true
}
