package main

import (
	"context"
	"defects-register/controller"
	"defects-register/dal"
	_ "defects-register/docs"
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/repository"
	"defects-register/services"
	"defects-register/utils"
	"defects-register/utils/logger"
	"defects-register/worker"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron"
)

const shutdownTimeout = 15 * time.Second

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title Vessel Defects Register API
// @version 1.0
// @description Browse, filter, summarise and export vessel defects for the vessels assigned to the signed-in user.
// @description
// @description ## Authentication
// @description 1. Sign in with the login bar at the top of this page, or call **POST /auth/login**.
// @description 2. The returned bearer token is applied to every request automatically.

// @contact.name API Support
// @contact.email support@defects-register.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token.
func main() {
	Init()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Debugf("Config loaded: %s", utils.PrintPrettyJSON(config))

	ctx := context.Background()

	db, err := dal.NewDynamoDBClient(ctx, config, appLogger)
	if err != nil {
		log.Fatalf("Failed to create DynamoDB client: %v", err)
	}

	var store dal.ObjectStoreInterface
	if config.S3ArchiveEnabled {
		s3Store, err := dal.NewS3ObjectStore(ctx, config, appLogger)
		if err != nil {
			log.Fatalf("Failed to create S3 archive store: %v", err)
		}
		store = s3Store
	}

	repos := repository.NewRepository(db, config, appLogger)
	jwtManager := middelware.NewJWTManager(config, appLogger, repos.GetUserRepository())

	var (
		trigger     services.ProvisioningTrigger
		infraWorker *worker.Worker
	)
	if config.WorkerEnabled {
		infraWorker, err = worker.NewWorker(db, config, worker.NewWorkerConfig(config), appLogger)
		if err != nil {
			log.Fatalf("Failed to create provisioning worker: %v", err)
		}
		if err := infraWorker.Start(); err != nil {
			log.Fatalf("Failed to start provisioning worker: %v", err)
		}
		trigger = infraWorker
	}

	svc := services.NewService(repos, store, jwtManager, trigger, appLogger, config)

	r := gin.New()
	logging := middelware.NewLoggingMiddleware(appLogger)
	r.Use(logging.RequestID(), logging.StructuredLogger(), logging.Recovery())
	r.Use(middelware.NewCORSMiddleware(config).CORS())

	controller.NewController(svc, jwtManager, config, appLogger).RegisterRoutes(r, config.BasePath)

	housekeeping := cron.New()
	if err := housekeeping.AddFunc("@every 10m", jwtManager.CleanupExpiredTokens); err != nil {
		log.Fatalf("Failed to schedule token cleanup: %v", err)
	}
	housekeeping.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", config.AppHost, config.AppPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("%s %s listening on %s", config.AppName, config.AppVersion, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	housekeeping.Stop()
	if infraWorker != nil {
		infraWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}
	appLogger.Info("Server exited")
}
