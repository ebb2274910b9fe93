package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stagepass.backend/internal/config"
	"stagepass.backend/internal/infrastructure/blobstore"
	"stagepass.backend/internal/infrastructure/gateway"
	"stagepass.backend/internal/infrastructure/jobs"
	"stagepass.backend/internal/infrastructure/repositories"
	"stagepass.backend/internal/interfaces/http/handlers"
	"stagepass.backend/internal/interfaces/http/middleware"
	"stagepass.backend/internal/usecases"
	"stagepass.backend/pkg/jwt"
	"stagepass.backend/pkg/logger"
	"stagepass.backend/pkg/metrics"
	"stagepass.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newBlobStore = func(ctx context.Context, cfg config.BlobConfig) (blobstore.Store, error) {
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			AccountID:       cfg.AccountID,
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.SecretAccessKey,
			Bucket:          cfg.Bucket,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	contestRepo := repositories.NewContestRepository(db)
	entryRepo := repositories.NewEntryRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// External services
	paystack := gateway.NewPaystackClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, cfg.Paystack.Timeout)
	blobs, err := newBlobStore(context.Background(), cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	eligibilityUsecase := usecases.NewEligibilityUsecase(userRepo, contestRepo, entryRepo, paystack, uow)
	contestUsecase := usecases.NewContestUsecase(contestRepo, entryRepo, submissionRepo, userRepo, blobs, uow)
	submissionUsecase := usecases.NewSubmissionUsecase(entryRepo, submissionRepo, userRepo, blobs)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	entryHandler := handlers.NewEntryHandler(eligibilityUsecase)
	paymentHandler := handlers.NewPaymentHandler(eligibilityUsecase)
	webhookHandler := handlers.NewWebhookHandler(eligibilityUsecase, cfg.Paystack.SecretKey)
	submissionHandler := handlers.NewSubmissionHandler(submissionUsecase)
	contestHandler := handlers.NewContestHandler(contestUsecase, eligibilityUsecase, submissionUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sweep *jobs.StaleEntrySweep
	if cfg.Sweep.Enabled {
		sweep = jobs.NewStaleEntrySweep(entryRepo, cfg.Sweep.MaxPendingAge, cfg.Sweep.Interval)
		if err := sweep.Start(ctx); err != nil {
			return fmt.Errorf("failed to start stale entry sweep: %w", err)
		}
	}

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(metrics.Middleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       authHandler,
		entryHandler:      entryHandler,
		paymentHandler:    paymentHandler,
		webhookHandler:    webhookHandler,
		submissionHandler: submissionHandler,
		contestHandler:    contestHandler,
		authMiddleware:    authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		if sweep != nil {
			sweep.Stop()
		}
		cancel()
	}()

	log.Printf("🚀 StagePass Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
