package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/shopfront/internal/auth"
	"github.com/noah-isme/shopfront/internal/cart"
	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/checkout"
	"github.com/noah-isme/shopfront/internal/config"
	"github.com/noah-isme/shopfront/internal/events"
	"github.com/noah-isme/shopfront/internal/health"
	"github.com/noah-isme/shopfront/internal/notify"
	"github.com/noah-isme/shopfront/internal/obs"
	"github.com/noah-isme/shopfront/internal/order"
	"github.com/noah-isme/shopfront/internal/ratelimit"
	"github.com/noah-isme/shopfront/internal/resilience"
	"github.com/noah-isme/shopfront/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "shopfront")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "shopfront-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	outboundTransport := otelhttp.NewTransport(http.DefaultTransport)

	catalogClient := catalog.Client{
		BaseURL: cfg.ProductsServiceURL,
		HTTP: resilience.Client{
			HTTP:        &http.Client{Transport: outboundTransport},
			Breaker:     resilience.NewBreaker(5, 30*time.Second),
			BaseBackoff: 200 * time.Millisecond,
			MaxAttempts: 3,
			Timeout:     cfg.FetchTimeout,
		},
	}
	catalogStore := catalog.NewStore(catalogClient, cfg.CatalogPageLimit, logger)
	catalogStore.OnFetchError = func() { obs.CatalogFetchFailures.Inc() }
	catalogHandler := catalog.Handler{Store: catalogStore}

	cartEngine := cart.NewEngine()
	history := order.NewHistory()
	sink := notify.NewSink(func(n notify.Notification) {
		obs.NotificationsEmitted.WithLabelValues(n.Type).Inc()
	})

	bus := &events.Bus{Notifiers: []events.Notifier{
		events.NotifierFunc(func(_ context.Context, event events.Event) error {
			logger.Info().Str("topic", event.Topic).Str("aggregate_id", event.AggregateID).Msg("domain event")
			return nil
		}),
	}}

	gateway := order.Gateway{
		BaseURL: cfg.OrderServiceURL,
		HTTP: resilience.Client{
			HTTP:    &http.Client{Transport: outboundTransport},
			Breaker: resilience.NewBreaker(5, 30*time.Second),
			// order creation is not idempotent; retries are user-initiated only
			MaxAttempts: 1,
			Timeout:     cfg.SubmitTimeout,
		},
	}

	orderSvc := &order.Service{
		Cart:    cartEngine,
		Catalog: catalogStore,
		Gateway: gateway,
		History: history,
		Sink:    sink,
		Bus:     bus,
		Log:     logger,
		Metrics: order.PlacementMetrics{
			Placed: func(mode string) { obs.OrdersPlacedTotal.WithLabelValues(mode).Inc() },
			Failed: func() { obs.OrderSubmitFailures.Inc() },
		},
	}

	stateStore := state.NewStore(redisClient, cfg.StateKey, logger)
	var snap state.Snapshot
	if found, err := stateStore.Hydrate(ctx, &snap); err != nil {
		logger.Error().Err(err).Msg("hydrate state")
	} else if found {
		state.Restore(snap, cartEngine, history, sink)
		logger.Info().Int("cart_lines", len(snap.Cart)).Int("orders", len(snap.Orders)).Msg("state hydrated")
	}
	flush := stateStore.Flusher(cartEngine, history, sink)

	workflow := checkout.NewWorkflow(orderSvc, nil, logger, cfg.RedirectDelay)

	cartHandler := cart.Handler{Engine: cartEngine, Catalog: catalogStore, Flush: flush}
	checkoutHandler := checkout.Handler{Workflow: workflow, Flush: flush}
	orderHandler := order.Handler{Svc: orderSvc, Flush: flush}
	notifyHandler := notify.Handler{Sink: sink}

	authMiddleware := auth.Middleware{Secret: []byte(cfg.JWTSecret)}

	limiterStore, err := ratelimit.NewRedisStore(redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise limiter store")
	}
	limiter, err := ratelimit.New(limiterStore, cfg.RateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse rate limit")
	}
	rateLimiter := ratelimit.Handler{
		Limiter: limiter,
		OnError: func(err error) { logger.Error().Err(err).Msg("rate limiter") },
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, nil, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(rateLimiter.Middleware)
	r.Use(authMiddleware.Authenticate)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker: health.RedisChecker{Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
		RedisTimeout: envDurationMillis("HEALTH_READY_REDIS_TIMEOUT_MS", 300),
	}
	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/products", catalogHandler.List)
		v.Post("/products/refresh", catalogHandler.Refresh)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Post("/items", cartHandler.Add)
			c.Patch("/items/{productID}", cartHandler.SetQty)
			c.Delete("/items/{productID}", cartHandler.Remove)
			c.Delete("/", cartHandler.Clear)
		})

		v.Route("/checkout", func(c chi.Router) {
			c.Get("/", checkoutHandler.Get)
			c.Post("/start", checkoutHandler.Start)
			c.Post("/details", checkoutHandler.Details)
			c.Post("/shipping", checkoutHandler.Shipping)
			c.Post("/back", checkoutHandler.Back)
			c.Post("/reset", checkoutHandler.Reset)
			c.Post("/submit", checkoutHandler.Submit)
		})

		v.Get("/orders", orderHandler.List)
		v.Post("/orders/local", orderHandler.PlaceLocal)
		v.Get("/notifications", notifyHandler.List)
	})

	catalogStore.FetchAll(ctx, 1, cfg.CatalogPageLimit)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	flush(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
