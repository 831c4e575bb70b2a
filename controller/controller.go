package controller

import (
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/services"
	"defects-register/utils/logger"
	"defects-register/utils/swagger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Auth           *AuthController
	Vessel         *VesselController
	Defect         *DefectController
	Infrastructure *InfrastructureController

	jwtManager *middelware.JWTManager
	config     *models.Config
}

func NewController(svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager, cfg *models.Config, log logger.Logger) *Controller {
	return &Controller{
		Auth:           NewAuthController(svc.GetAuthService(), jwtManager, log),
		Vessel:         NewVesselController(svc.GetVesselService(), log),
		Defect:         NewDefectController(svc.GetDefectService(), svc.GetReportService(), log),
		Infrastructure: NewInfrastructureController(svc.GetInfrastructureService(), log),
		jwtManager:     jwtManager,
		config:         cfg,
	}
}

// RegisterRoutes mounts every endpoint under basePath plus the Swagger UI at the root
func (c *Controller) RegisterRoutes(r *gin.Engine, basePath string) {
	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", c.Health)

	swaggerConfig := swagger.SwaggerConfig{
		Title:         "Vessel Defects Register API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       basePath + "/auth/login",
	}
	r.GET("/swagger", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/index.html", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/doc.json", swagger.ServeDoc())

	requireAuth := c.jwtManager.AuthMiddleware()
	adminOnly := c.jwtManager.RequireRole(models.UserRoleAdmin)

	auth := v1.Group("/auth")
	auth.POST("/login", c.Auth.Login)
	auth.POST("/validate", c.Auth.ValidateToken)
	auth.POST("/logout", requireAuth, c.Auth.Logout)
	auth.POST("/register", requireAuth, adminOnly, c.Auth.Register)

	v1.GET("/vessels", requireAuth, c.Vessel.ListAssigned)

	defects := v1.Group("/defects", requireAuth)
	defects.GET("", c.Defect.List)
	defects.GET("/draft", c.Defect.Draft)
	defects.GET("/equipment", c.Defect.Equipment)
	defects.GET("/stats", c.Defect.Stats)
	defects.GET("/export/csv", c.Defect.ExportCSV)
	defects.GET("/export/pdf", c.Defect.ExportPDF)
	defects.POST("", c.Defect.Create)
	defects.PUT("/:id", c.Defect.Update)
	defects.DELETE("/:id", c.Defect.Delete)

	infra := v1.Group("/infrastructure/worker", requireAuth, adminOnly)
	infra.GET("/status", c.Infrastructure.GetWorkerStatus)
	infra.GET("/health", c.Infrastructure.CheckWorkerHealth)
	infra.POST("/restart", c.Infrastructure.RestartWorker)
	infra.POST("/auto-restart", c.Infrastructure.AutoRestartWorker)
}

// Health handles GET /api/v1/health
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (c *Controller) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": c.config.AppVersion,
		"service": c.config.AppName,
	})
}
