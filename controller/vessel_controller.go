package controller

import (
	"defects-register/services"
	"defects-register/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VesselController struct {
	service services.VesselServiceInterface
	logger  logger.Logger
}

func NewVesselController(service services.VesselServiceInterface, logger logger.Logger) *VesselController {
	return &VesselController{service: service, logger: logger}
}

// ListAssigned handles GET /api/v1/vessels
// @Summary List assigned vessels
// @Description Vessels the caller may view and edit defects for
// @Tags Vessels
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.Vessel} "Vessels retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Failed to load assignments"
// @Router /vessels [get]
func (h *VesselController) ListAssigned(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	vessels, err := h.service.Assigned(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "Failed to load vessels", err)
		return
	}

	message := "Vessels retrieved successfully"
	if len(vessels) == 0 {
		message = services.NoVesselsMessage
	}
	respondOK(c, http.StatusOK, message, vessels)
}
