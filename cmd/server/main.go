package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/config"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperrors"
	"github.com/fekuna/omnipos-backoffice-service/internal/rbac"
	rbacdto "github.com/fekuna/omnipos-backoffice-service/internal/rbac/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/broker"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-backoffice-service/pkg/hasher"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/fekuna/omnipos-backoffice-service/pkg/search"

	catalogRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/catalog/repository"
	catalogUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/catalog/usecase"

	registryRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/registry/repository"
	registryUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/registry/usecase"

	rbacRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/rbac/repository"
	rbacUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/rbac/usecase"

	ledgerListenerPkg "github.com/fekuna/omnipos-backoffice-service/internal/ledger/listener"
	ledgerRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/ledger/repository"
	ledgerUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/ledger/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	registryRepo := registryRepoPkg.NewPGRepository(db)
	rbacRepo := rbacRepoPkg.NewPGRepository(db)
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	catalogUC := catalogUCPkg.NewCatalogUseCase(catalogRepo, redisClient, esClient, appLogger)
	registryUC := registryUCPkg.NewRegistryUseCase(registryRepo, appLogger)
	rbacUC := rbacUCPkg.NewRBACUseCase(rbacRepo, hasher.NewBcryptHasher(), appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, catalogRepo, rbacRepo, registryUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := catalogUC.EnsureSearchIndex(ctx); err != nil {
		appLogger.Warn("Could not create product search index", zap.Error(err))
	}

	seedRBAC(ctx, rbacUC, appLogger)

	// 6.5 Initialize Listeners
	ledgerListener := ledgerListenerPkg.NewLedgerListener(kafkaConsumer, ledgerUC, appLogger)
	go ledgerListener.Start(ctx)

	appLogger.Info("Back-office service started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down service...")
	cancel()
	appLogger.Info("Service stopped")
}

// seedRBAC creates the baseline privileges and the administrator role on
// first boot. Existing entries are left untouched.
func seedRBAC(ctx context.Context, uc rbac.UseCase, log logger.ZapLogger) {
	privileges := []string{"READ_PRIVILEGE", "WRITE_PRIVILEGE"}
	for _, name := range privileges {
		if _, err := uc.CreatePrivilege(ctx, name); err != nil && !errors.Is(err, apperrors.ErrDuplicateKey) {
			log.Warn("Could not seed privilege", zap.String("name", name), zap.Error(err))
		}
	}

	_, err := uc.CreateRole(ctx, &rbacdto.CreateRoleInput{
		Name:           "ROLE_ADMIN",
		PrivilegeNames: privileges,
	})
	if err != nil && !errors.Is(err, apperrors.ErrDuplicateKey) {
		log.Warn("Could not seed admin role", zap.Error(err))
	}
}
