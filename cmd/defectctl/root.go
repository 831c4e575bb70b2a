package main

import (
	"context"
	"defects-register/dal"
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/repository"
	"defects-register/services"
	"defects-register/utils"
	"defects-register/utils/logger"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// backend is the slice of the application the CLI drives
type backend struct {
	vessels     services.VesselServiceInterface
	reports     services.ReportServiceInterface
	auth        services.AuthServiceInterface
	assignments repository.VesselRepositoryInterface
}

type backendFactory func(ctx context.Context, cfg *models.Config, log logger.Logger) (*backend, error)

// newBackend wires the same services the HTTP server uses, without the provisioning worker
func newBackend(ctx context.Context, cfg *models.Config, log logger.Logger) (*backend, error) {
	db, err := dal.NewDynamoDBClient(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	var store dal.ObjectStoreInterface
	if cfg.S3ArchiveEnabled {
		s3Store, err := dal.NewS3ObjectStore(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 archive store: %w", err)
		}
		store = s3Store
	}

	repos := repository.NewRepository(db, cfg, log)
	tokens := middelware.NewJWTManager(cfg, log, repos.GetUserRepository())
	svc := services.NewService(repos, store, tokens, nil, log, cfg)

	return &backend{
		vessels:     svc.GetVesselService(),
		reports:     svc.GetReportService(),
		auth:        svc.GetAuthService(),
		assignments: repos.GetVesselRepository(),
	}, nil
}

// app holds state shared by every subcommand
type app struct {
	factory    backendFactory
	configFile string
	v          *viper.Viper
	config     *models.Config
	logger     logger.Logger
	backend    *backend
}

func newRootCmd(factory backendFactory) *cobra.Command {
	a := &app{factory: factory, v: viper.New()}

	root := &cobra.Command{
		Use:           "defectctl",
		Short:         "Operate the vessel defects register",
		Long:          "defectctl lists assigned vessels, prints defect statistics and exports CSV or PDF reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./config.json)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("table-prefix", "", "DynamoDB table prefix override")
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("dynamodb_table_prefix", flags.Lookup("table-prefix"))

	root.AddCommand(
		newVesselsCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newUsersCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("json")
		a.v.AddConfigPath(".")
		a.v.AddConfigPath("./configs")
	}
	cfg, err := utils.LoadFrom(a.v)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.config = cfg
	a.logger = logger.NewLogger(cfg.LogLevel, cfg.LogFormat)

	a.backend, err = a.factory(ctx, cfg, a.logger)
	return err
}
