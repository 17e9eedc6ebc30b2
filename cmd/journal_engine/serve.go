package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/handlers"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/SscSPs/journal_engine/internal/platform/config"
	"github.com/SscSPs/journal_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the recurring scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.StoreDriver == config.StoreDriverPostgres && !skipMigrations {
		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.Up); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			return err
		}
	}

	rt, err := buildRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize runtime", slog.String("error", err.Error()))
		return err
	}
	defer rt.Close()

	router, err := newRouter(logger, rt)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		runScheduler(gctx, logger, rt.services.Journal, cfg.RecurringInterval)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func newRouter(logger *slog.Logger, rt *runtime) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// request DTOs carry `validate` tags shared with the service layer
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.SetTagName("validate")
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		rt.metrics.Middleware(),
		middleware.RateLimit(rateLimiter),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		return nil, err
	}

	handlers.RegisterRoutes(r, cfg, rt.services, handlers.Extras{
		Metrics:      rt.metrics.Handler(),
		HealthChecks: rt.checks,
	})
	return r, nil
}

// runScheduler runs the due-recurring scan once at startup and then on every tick.
func runScheduler(ctx context.Context, logger *slog.Logger, svc portssvc.RecurringSvc, interval time.Duration) {
	logger = logger.With(slog.String("component", "recurring_scheduler"))
	ctx = middleware.WithLogger(ctx, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := svc.RunDueRecurring(ctx, domain.DateOf(time.Now().UTC()))
		if err != nil {
			logger.Error("Recurring scan failed", slog.String("error", err.Error()))
		} else if len(summary.Posted)+len(summary.Failed) > 0 {
			logger.Info("Recurring scan finished",
				slog.Int("posted", len(summary.Posted)),
				slog.Int("skipped", len(summary.Skipped)),
				slog.Int("failed", len(summary.Failed)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
