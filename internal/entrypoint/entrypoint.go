package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/audit"
	"github.com/MuhammadMouostafa/library-management-system/internal/config"
	"github.com/MuhammadMouostafa/library-management-system/internal/database"
	auditrepo "github.com/MuhammadMouostafa/library-management-system/internal/database/audit"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/books"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/borrowers"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/borrows"
	"github.com/MuhammadMouostafa/library-management-system/internal/database/categories"
	http_controllers "github.com/MuhammadMouostafa/library-management-system/internal/http"
	"github.com/MuhammadMouostafa/library-management-system/internal/logging"
	"github.com/MuhammadMouostafa/library-management-system/internal/metrics"
	"github.com/MuhammadMouostafa/library-management-system/internal/security"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewLogger builds the application logger from configuration.
func NewLogger(cfg *config.Config, version string) *zap.Logger {
	return logging.New(logging.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, Version: version})
}

// OpenDatabase connects to the configured store and migrates the schema.
func OpenDatabase(cfg *config.Config, log *zap.Logger) (*database.Database, error) {
	return database.NewDatabase(database.Options{
		Driver:   string(cfg.Database.Driver),
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
	}, log)
}

// Services bundles the application services built on one database.
type Services struct {
	Books      *services.BookService
	Borrowers  *services.BorrowerService
	Categories *services.CategoryService
	Lending    *services.LendingService
	Reports    *services.ReportService
	Audit      *audit.Service
}

// NewServices wires repositories into services. recorder may be nil.
func NewServices(db *database.Database, cfg *config.Config, log *zap.Logger, recorder *metrics.Recorder) Services {
	opts := services.Options{Logger: log, Metrics: recorder}

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditrepo.NewRepository(db.DB), log.Named("audit"))
		opts.Auditor = auditService
	}

	borrowsRepo := borrows.NewRepository(db.DB)
	uow := database.NewUnitOfWork(db.DB)
	return Services{
		Books:      services.NewBookService(books.NewRepository(db.DB), borrowsRepo, uow, opts),
		Borrowers:  services.NewBorrowerService(borrowers.NewRepository(db.DB), borrowsRepo, opts),
		Categories: services.NewCategoryService(categories.NewRepository(db.DB), opts),
		Lending:    services.NewLendingService(uow, opts),
		Reports:    services.NewReportService(borrowsRepo, opts),
		Audit:      auditService,
	}
}

const redisPingTimeout = 3 * time.Second

// NewLimiter returns the configured rate limiter and a function releasing
// its resources. Redis is used when an address is configured and reachable;
// otherwise counters live in memory.
func NewLimiter(cfg *config.Config, log *zap.Logger) (security.Limiter, func() error) {
	noop := func() error { return nil }
	if !cfg.RateLimit.Enabled {
		return nil, noop
	}

	if cfg.RateLimit.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		err := client.Ping(ctx).Err()
		if err == nil {
			log.Info("Rate limiting with Redis",
				zap.String("addr", cfg.RateLimit.RedisAddr),
				zap.Int("max", cfg.RateLimit.Max),
				zap.Duration("window", cfg.RateLimit.Window))
			return security.NewRedisLimiter(client, "library:rl:", cfg.RateLimit.Max, cfg.RateLimit.Window), client.Close
		}
		log.Warn("Redis unavailable, rate limiting in memory",
			zap.String("addr", cfg.RateLimit.RedisAddr),
			zap.Error(err))
		_ = client.Close()
	}

	log.Info("Rate limiting in memory",
		zap.Int("max", cfg.RateLimit.Max),
		zap.Duration("window", cfg.RateLimit.Window))
	return security.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window), noop
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router http.Handler, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info("Server exiting")
	return nil
}

// Run starts the API server with everything wired from cfg.
func Run(cfg *config.Config, version string) error {
	log := NewLogger(cfg, version)
	defer func() { _ = log.Sync() }()

	gin.SetMode(gin.ReleaseMode)
	if cfg.Log.Env == "dev" {
		gin.SetMode(gin.DebugMode)
	}

	db, err := OpenDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New()
		if sqlDB, err := db.DB.DB(); err == nil {
			if err := recorder.RegisterDBStats(sqlDB); err != nil {
				log.Warn("Failed to register database metrics", zap.Error(err))
			}
		}
	}

	limiter, closeLimiter := NewLimiter(cfg, log)
	defer func() {
		if err := closeLimiter(); err != nil {
			log.Warn("Error closing rate limiter", zap.Error(err))
		}
	}()

	svc := NewServices(db, cfg, log, recorder)
	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:      svc.Books,
		Borrowers:  svc.Borrowers,
		Categories: svc.Categories,
		Lending:    svc.Lending,
		Reports:    svc.Reports,
		Audit:      svc.Audit,
		Database:   db,
		Version:    version,
		Metrics:    recorder,
		Limiter:    limiter,
		HSTSMaxAge: cfg.HTTP.HSTSMaxAge,
		Pagination: http_controllers.Pagination{
			DefaultLimit: cfg.Pagination.DefaultLimit,
			MaxLimit:     cfg.Pagination.MaxLimit,
		},
		Logger: log.Named("http"),
	})

	return Serve(router, cfg, log, func(ctx context.Context) {
		log.Info("Server stopped, releasing resources")
	})
}
