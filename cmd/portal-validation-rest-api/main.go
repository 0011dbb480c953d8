// cmd/portal-validation-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/Artef-ca/mobily-vrm-uc/internal/api/rest/v1"
	"github.com/Artef-ca/mobily-vrm-uc/internal/app"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/connector"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/persistence"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/metrics"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	restConfig, err := config.InitializeRestConfig(config.ConfigPathFromEnv())
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	ctx := context.Background()
	deps, err := initializeDependencies(ctx, restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	services *appServices
	closers  []func() error
}

type appServices struct {
	portalValidation portal.PortalValidationService
	fieldResultQuery portal.FieldResultQueryService
	vendorValidation validation.VendorValidationService
	registry         registry.RegistryService
}

func (d *appDependencies) close(log logger.Logger) {
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			log.Warn("failed to release resource: ", err)
		}
	}
}

// documentStore reads vendor documents and saves fetched registrations
type documentStore interface {
	documents.DocumentSource
	documents.DocumentWriter
}

// initializeDependencies sets up all application components. Resources opened
// before a failing step are released.
func initializeDependencies(ctx context.Context, cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	deps := &appDependencies{}
	if err := deps.initialize(ctx, cfg, log); err != nil {
		deps.close(log)
		return nil, err
	}
	return deps, nil
}

func (deps *appDependencies) initialize(ctx context.Context, cfg *config.RestConfig, log logger.Logger) error {
	// Rules are loaded once; the engine is immutable afterwards
	rules, err := app.LoadValidationConfig(cfg.Validation.RulesPath)
	if err != nil {
		return fmt.Errorf("failed to load validation rules: %w", err)
	}
	engine, err := app.NewValidationEngine(rules)
	if err != nil {
		return fmt.Errorf("failed to create validation engine: %w", err)
	}
	log.Info(fmt.Sprintf("Loaded %d portal field checks and %d cross source rules from %s",
		len(rules.PortalFieldValidations), len(rules.CrossSourceRules), cfg.Validation.RulesPath))

	resultRepo, err := initializeResultRepository(ctx, cfg, deps, log)
	if err != nil {
		return err
	}

	store, err := initializeDocumentStore(ctx, cfg, deps, log)
	if err != nil {
		return err
	}

	wathq, err := connector.NewWathqConnector(&cfg.Wathq, log)
	if err != nil {
		return fmt.Errorf("failed to create Wathq connector: %w", err)
	}
	if cfg.Wathq.APIKey == "" {
		log.Warn("WATHQ_API_KEY is not set; registry lookups will fail")
	}

	services, err := initializeApplicationServices(engine, resultRepo, store, wathq, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	deps.services = services

	return nil
}

// initializeResultRepository opens the configured results sink
func initializeResultRepository(ctx context.Context, cfg *config.RestConfig, deps *appDependencies, log logger.Logger) (portal.FieldResultRepository, error) {
	switch cfg.ResultsSink.Type {
	case config.BigQuerySinkType:
		repo, err := persistence.NewBigQueryFieldResultRepository(&cfg.BigQuery, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create BigQuery repository: %w", err)
		}
		deps.closers = append(deps.closers, repo.Close)
		if cfg.BigQuery.ProjectID == "" {
			log.Warn("BQ_PROJECT is not set; storing field results will fail")
		} else {
			log.Info("Writing field results to BigQuery table ", cfg.BigQuery.TableID())
		}
		return repo, nil

	case config.DatabaseSinkType:
		db, err := persistence.NewDBConnection(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create db connection: %w", err)
		}
		deps.closers = append(deps.closers, func() error { return persistence.CloseDB(db) })

		repo, err := persistence.NewGormFieldResultRepository(db, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create field result repository: %w", err)
		}
		log.Info("Writing field results to ", cfg.Database.Type, " database")
		return repo, nil

	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedSink, cfg.ResultsSink.Type)
	}
}

// initializeDocumentStore opens the configured vendor document source
func initializeDocumentStore(ctx context.Context, cfg *config.RestConfig, deps *appDependencies, log logger.Logger) (documentStore, error) {
	switch cfg.DocumentSource.Type {
	case config.LocalDocumentSource:
		source, err := connector.NewLocalDocumentConnector(&cfg.DocumentSource, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create local document connector: %w", err)
		}
		writer, err := connector.NewLocalDocumentWriter(cfg.DocumentSource.OCRRoot, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create local document writer: %w", err)
		}
		return struct {
			*connector.LocalDocumentConnector
			*connector.LocalDocumentWriter
		}{source, writer}, nil

	case config.GCSDocumentSource:
		gcs, err := connector.NewGCSDocumentConnector(ctx, &cfg.GCS, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCS document connector: %w", err)
		}
		deps.closers = append(deps.closers, gcs.Close)
		log.Info("Reading vendor documents from bucket ", cfg.GCS.Bucket)
		return gcs, nil

	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedSource, cfg.DocumentSource.Type)
	}
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	engine validation.RuleEngine,
	resultRepo portal.FieldResultRepository,
	store documentStore,
	registryConn registry.RegistryConnector,
	log logger.Logger,
) (*appServices, error) {
	portalValidationService, err := app.NewPortalValidationService(engine, resultRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create portal validation service: %w", err)
	}

	fieldResultQueryService, err := app.NewFieldResultQueryService(resultRepo, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create field result query service: %w", err)
	}

	registryService, err := app.NewRegistryService(registryConn, store, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry service: %w", err)
	}

	vendorValidationService, err := app.NewVendorValidationService(engine, store, registryService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor validation service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		portalValidation: portalValidationService,
		fieldResultQuery: fieldResultQueryService,
		vendorValidation: vendorValidationService,
		registry:         registryService,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(metrics.GinMiddleware())

	v1.SetupRoutes(r,
		deps.services.portalValidation,
		deps.services.fieldResultQuery,
		deps.services.vendorValidation,
		deps.services.registry,
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info(fmt.Sprintf("Received signal %v, initiating graceful shutdown", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
