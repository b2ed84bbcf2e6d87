package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/kyc-risk-service/internal/application/usecase"
	"github.com/bibbank/kyc-risk-service/internal/domain/port"
	"github.com/bibbank/kyc-risk-service/internal/domain/service"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/config"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/kafka"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/memory"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/metrics"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/postgres"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/postgres/migrations"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/reference"
	"github.com/bibbank/kyc-risk-service/internal/infrastructure/scheduler"
	grpcpresentation "github.com/bibbank/kyc-risk-service/internal/presentation/grpc"
	"github.com/bibbank/kyc-risk-service/internal/presentation/rest"
	"github.com/bibbank/kyc-risk-service/pkg/auth"
	pkgkafka "github.com/bibbank/kyc-risk-service/pkg/kafka"
	"github.com/bibbank/kyc-risk-service/pkg/observability"
	pkgpostgres "github.com/bibbank/kyc-risk-service/pkg/postgres"
	"github.com/bibbank/kyc-risk-service/pkg/tlsutil"
)

const sweepTimeout = 30 * time.Minute

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Telemetry.LogLevel,
		Format:      cfg.Telemetry.LogFormat,
		ServiceName: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("kyc-risk-service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("kyc-risk-service stopped")
}

// storage holds the repositories selected by configuration.
type storage struct {
	parameters  port.ParameterRepository
	assessments port.AssessmentRepository
	customers   port.CustomerSnapshotReader
	pinger      pkgpostgres.Pinger
	close       func()
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	if !cfg.DB.Enabled() {
		logger.Warn("DB_HOST not set, using in-memory storage")
		return storage{
			parameters:  memory.NewParameterRepository(service.DefaultParameters(time.Now().UTC())),
			assessments: memory.NewAssessmentRepository(),
			customers:   memory.NewCustomerSnapshotReader(nil),
			close:       func() {},
		}, nil
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	poolCfg := cfg.DB.PoolConfig()
	pool, err := pkgpostgres.NewPool(dbCtx, poolCfg)
	if err != nil {
		return storage{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pkgpostgres.RunMigrations(poolCfg.DSN(), migrations.FS, migrations.Dir); err != nil {
		pool.Close()
		return storage{}, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("connected to database", slog.String("host", cfg.DB.Host), slog.String("database", cfg.DB.Name))

	return storage{
		parameters:  postgres.NewParameterRepository(pool),
		assessments: postgres.NewAssessmentRepository(pool),
		customers:   postgres.NewCustomerSnapshotReader(pool),
		pinger:      pool,
		close:       pool.Close,
	}, nil
}

func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer, Audience: cfg.Audience, Leeway: 30 * time.Second}
	if cfg.JWTPublicKeyFile != "" {
		key, err := auth.LoadKeyFromFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(key)
	} else {
		jwtCfg.Secret = cfg.JWTSecret
	}
	return auth.NewJWTService(jwtCfg)
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting kyc-risk-service",
		slog.Int("grpc_port", cfg.GRPCPort),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("missing_data_policy", cfg.Risk.Policy().String()),
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		SampleRatio:    cfg.Telemetry.SampleRatio,
		Insecure:       cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", slog.String("error", err.Error()))
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	telemetry, err := observability.InitMetrics()
	if err != nil {
		return err
	}
	defer func() { _ = telemetry.Provider.Shutdown(context.Background()) }()
	observer, err := metrics.NewObserver(telemetry.Registry, telemetry.Provider.Meter(cfg.ServiceName))
	if err != nil {
		return err
	}

	tables, err := reference.LoadFile(cfg.Risk.ReferenceTablesPath, cfg.Risk.HomeCountry)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	// Event publishing.
	var publisher port.EventPublisher = kafka.NewLogPublisher(logger)
	var producer *pkgkafka.Producer
	if cfg.Kafka.Enabled() {
		producer, err = pkgkafka.NewProducer(cfg.Kafka.ClientConfig(cfg.ServiceName))
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }()
		publisher = kafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events are logged only")
	}

	// Domain services.
	policy := cfg.Risk.Policy()
	parameterStore := service.NewParameterStore(store.parameters)
	aggregator := service.NewDefaultRiskAggregator(tables, policy)
	resolver := service.NewDocumentationResolver(tables.Documents)

	// Use cases.
	reassessUC := usecase.NewReassessCustomersUseCase(parameterStore, aggregator, store.customers, store.assessments,
		publisher, observer, logger, cfg.Risk.BatchWorkers)
	useCases := grpcpresentation.UseCases{
		Assess:          usecase.NewAssessCustomerRiskUseCase(parameterStore, aggregator, store.assessments, publisher, observer, logger),
		Reassess:        reassessUC,
		GetLatest:       usecase.NewGetLatestAssessmentUseCase(store.assessments),
		ProjectActivity: usecase.NewProjectActivityRiskUseCase(service.NewFinancialRiskCalculator(tables, policy)),
		RequiredDocs:    usecase.NewGetRequiredDocumentsUseCase(resolver),
		Compliance:      usecase.NewCheckDocumentationComplianceUseCase(resolver, logger),
		Parameters:      usecase.NewParameterUseCases(parameterStore, publisher, observer, logger),
	}

	// Periodic re-assessment.
	sched := scheduler.New(logger, sweepTimeout)
	if err := sched.AddJob(cfg.Risk.ReassessSchedule, scheduler.NewReassessJob(reassessUC, cfg.Risk.BatchLimit, logger)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// gRPC server.
	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	grpcServer, err := grpcpresentation.NewServer(
		grpcpresentation.NewKYCRiskServiceHandler(useCases, logger),
		jwtSvc,
		grpcpresentation.ServerOptions{
			TLS:        tlsutil.ServerConfig{CertFile: cfg.TLS.CertFile, KeyFile: cfg.TLS.KeyFile, ClientCAFile: cfg.TLS.ClientCAFile},
			Reflection: cfg.GRPCReflection,
		},
		logger,
	)
	if err != nil {
		return err
	}

	// HTTP server (health checks and metrics).
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(logger, store.pinger, telemetry.Handler).RegisterRoutes(httpMux)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Start(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server starting", slog.String("addr", cfg.HTTPAddr()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if cfg.Kafka.Enabled() && cfg.Kafka.ConsumeUpdates {
		handler := kafka.NewCustomerUpdateHandler(reassessUC, logger)
		consumer, err := pkgkafka.NewConsumer(cfg.Kafka.ClientConfig(cfg.ServiceName), cfg.Kafka.CustomerTopic, handler.Handle, logger)
		if err != nil {
			return fmt.Errorf("failed to create customer update consumer: %w", err)
		}
		defer func() { _ = consumer.Close() }()
		g.Go(func() error { return consumer.Start(gctx) })
	}

	logger.Info("kyc-risk-service is running",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("http_addr", cfg.HTTPAddr()),
	)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		grpcServer.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}
