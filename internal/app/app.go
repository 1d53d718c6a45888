package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"tableflow/internal/domain/order"
	"tableflow/internal/domain/print"
	"tableflow/internal/handler"
	"tableflow/internal/printer/escpos"
	"tableflow/internal/storage/postgres"
	"tableflow/pkg/broadcast"
	"tableflow/pkg/health"
	"tableflow/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application: every shared
// resource (pool, hub, spooler) is constructed here and torn down here.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Repositories.
	orderRepo := postgres.NewOrderRepository(pool)
	bindingRepo := postgres.NewBindingRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)

	// Print pipeline: ESC/POS client -> bounded spooler -> station router.
	printerClient := escpos.NewClient(cfg.Print.DialTimeout, cfg.Print.WriteTimeout)
	spooler := print.NewSpooler(printerClient, print.SpoolerConfig{
		Stations:      cfg.Print.Stations,
		Timeout:       cfg.Print.DialTimeout + cfg.Print.WriteTimeout,
		MaxConcurrent: cfg.Print.MaxConcurrent,
	}, lg.Named("spooler"))
	dispatcher := print.NewDispatcher(
		print.NewRouter(bindingRepo, cfg.Print.DefaultStation),
		spooler,
	)

	// Event hub + order lifecycle service.
	hub := broadcast.NewHub(lg.Named("events"), cfg.Events.Buffer)
	orderSvc := order.NewService(orderRepo, dispatcher, hub)

	// HTTP surface.
	h := handler.New(orderSvc, catalogRepo, dispatcher, hub)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	// No WriteTimeout: /api/events holds a streaming response open.
	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(
			otelhttp.NewHandler(mux, "pos-api",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(lg),
			httpmiddleware.LogRequests(),
		),
	}
	healthSvc.SetReady(true)

	// Graceful shutdown: flip readiness, drain connections, stop the server,
	// then wait out in-flight print jobs so none are orphaned.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}

		lg.Info("Draining print spooler")
		spooler.Drain()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
