package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/forgecommerce/catalog/internal/config"
	"github.com/forgecommerce/catalog/internal/database"
	apihandlers "github.com/forgecommerce/catalog/internal/handlers/api"
	"github.com/forgecommerce/catalog/internal/logging"
	"github.com/forgecommerce/catalog/internal/metrics"
	"github.com/forgecommerce/catalog/internal/middleware"
	"github.com/forgecommerce/catalog/internal/services/category"
	"github.com/forgecommerce/catalog/internal/services/media"
	"github.com/forgecommerce/catalog/internal/services/product"
	"github.com/forgecommerce/catalog/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.OutOrStdout())

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connected")

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}
	logger.Info("migrations complete")

	store, mediaHandler, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("media storage ready", slog.String("backend", cfg.MediaStorage))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newHandler(cfg, pool, store, mediaHandler, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newStorage builds the configured blob store. The returned handler serves
// local files and is nil for S3.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, http.Handler, error) {
	switch cfg.MediaStorage {
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config(cfg.S3))
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		store := storage.NewLocal(cfg.MediaPath, cfg.MediaURLPrefix)
		return store, store.Handler(), nil
	}
}

// newHandler wires services, routes and middleware into the server handler.
func newHandler(cfg *config.Config, pool *pgxpool.Pool, store storage.Storage, mediaHandler http.Handler, logger *slog.Logger) http.Handler {
	mediaSvc := media.NewService(store, cfg.MaxUploadBytes, logger)
	productSvc := product.NewService(pool, mediaSvc, logger)
	categorySvc := category.NewService(pool, logger)

	mux := http.NewServeMux()
	apihandlers.NewCatalogHandler(productSvc, categorySvc, mediaSvc, logger).RegisterRoutes(mux)

	if mediaHandler != nil {
		mux.Handle("GET "+cfg.MediaURLPrefix+"/", mediaHandler)
	}

	mws := []func(http.Handler) http.Handler{
		middleware.RequestLogger(logger),
		middleware.Recover(logger),
	}
	if cfg.MetricsEnabled {
		metrics.Register()
		mux.Handle("GET /metrics", promhttp.Handler())
		mws = append(mws, middleware.Metrics)
	}
	mws = append(mws, middleware.CORS(cfg.CORSOrigin), middleware.SecurityHeaders)

	return middleware.Chain(mux, mws...)
}
