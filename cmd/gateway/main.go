package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"proxy-gateway/config"
	"proxy-gateway/gateway"
	"proxy-gateway/gateway/application"
	"proxy-gateway/gateway/infra"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("gateway exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	backendURL, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancelPing()
	if err != nil {
		return err
	}
	logger.Info("connected to redis", slog.String("addr", redisOpts.Addr))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := infra.NewRedisStore(rdb)

	// freio local de fallback: aproxima o maior limite configurado por janela
	fallback := infra.NewLocalStore(
		float64(cfg.MaxRateLimit())/cfg.TimeWindow.Seconds(),
		cfg.MaxRateLimit(),
	)
	fallback.StartJanitor(ctx)

	reg := prometheus.NewRegistry()
	metrics := infra.NewMetrics(reg)

	keyFn := gateway.ClientIP(cfg.TrustXFF)

	svc := application.Service{
		Store:    store,
		Fallback: fallback,
		Metrics:  metrics,
		Limits: application.Limits{
			PerMethod:    cfg.RateLimits,
			Window:       cfg.TimeWindow,
			AllowUnknown: cfg.AllowUnknownMethods(),
		},
		Logger: logger,
	}

	pool := infra.NewChanPool(cfg.MaxConcurrentRequests, infra.WithInFlightGauge(metrics.InFlight))

	var h http.Handler = gateway.NewForwarder(backendURL, cfg.ForwardTimeout, keyFn, logger)
	h = gateway.Concurrency(gateway.ConcurrencyOptions{
		Pool:           pool,
		AcquireTimeout: cfg.ConcurrencyTimeout,
		Logger:         logger,
	})(h)
	h = gateway.RateLimit(gateway.RateLimitOptions{
		Service: svc,
		KeyFn:   keyFn,
		Logger:  logger,
	})(h)

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/health", gateway.NewHealthHandler(gateway.HealthOptions{
		Store:        store,
		BackendURL:   backendURL,
		Metrics:      metrics,
		ProbeTimeout: cfg.ProbeTimeout,
		Logger:       logger,
	}))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Handle("/*", h)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("gateway listening",
		slog.String("addr", cfg.ListenAddr),
		slog.String("backend", backendURL.String()),
	)
	logger.Info("rate limits configured",
		slog.Any("limits", cfg.RateLimits),
		slog.Duration("window", cfg.TimeWindow),
		slog.String("unknown_method_policy", cfg.UnknownMethodPolicy),
	)
	logger.Info("concurrency configured",
		slog.Int("max", cfg.MaxConcurrentRequests),
		slog.Duration("acquire_timeout", cfg.ConcurrencyTimeout),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
