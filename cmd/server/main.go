package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayfarerhq/storefront/internal"
	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/contact"
	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/handler/storefront"
	"github.com/wayfarerhq/storefront/internal/kv"
	"github.com/wayfarerhq/storefront/internal/middleware"
	"github.com/wayfarerhq/storefront/internal/router"
	"github.com/wayfarerhq/storefront/internal/routes"
	"github.com/wayfarerhq/storefront/internal/service"
	"github.com/wayfarerhq/storefront/internal/telemetry"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Enabled:     cfg.Sentry.Enabled,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Session state store: Redis when configured, in-memory otherwise
	var store kv.Store
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		logger.Info().Str("prefix", cfg.Redis.Prefix).Msg("Session store: Redis")
		store = kv.NewRedisStore(client, cfg.Redis.Prefix)
	} else {
		logger.Warn().Msg("Session store: in-memory, sessions will not survive a restart")
		store = kv.NewMemoryStore()
	}

	// Remote commerce platform client
	platform, err := commerce.NewGraphQLClient(commerce.Config{
		StoreDomain: cfg.Commerce.StoreDomain,
		AccessToken: cfg.Commerce.AccessToken,
		APIVersion:  cfg.Commerce.APIVersion,
		Timeout:     cfg.Commerce.Timeout,
	})
	if err != nil {
		return fmt.Errorf("commerce client initialization failed: %w", err)
	}
	logger.Info().Str("store", cfg.Commerce.StoreDomain).Msg("Commerce client initialized")

	// Display currency converter
	converter, err := currency.NewConverter(cfg.BaseCurrency)
	if err != nil {
		return fmt.Errorf("currency converter initialization failed: %w", err)
	}

	// Telemetry
	httpMetrics := middleware.NewMetrics("wayfarer")
	bookingMetrics := telemetry.NewBookingMetrics("wayfarer")

	// Services
	cartService := service.NewCartService(store, platform, converter)
	checkoutService := service.NewCheckoutService(store, cartService, platform, bookingMetrics)
	authService := service.NewAuthService(store, platform, cartService, bookingMetrics)
	orderService := service.NewOrderService(store, platform, authService)
	productService := service.NewProductService(platform)

	// Contact relay
	var sender contact.Sender
	if cfg.Contact.Endpoint != "" {
		sender, err = contact.NewClient(cfg.Contact.Endpoint, cfg.Contact.Timeout)
		if err != nil {
			return fmt.Errorf("contact client initialization failed: %w", err)
		}
	} else {
		logger.Warn().Msg("CONTACT_ENDPOINT not set, contact form disabled")
		sender = contact.Disabled{}
	}

	// Route dependencies
	deps := routes.StorefrontDeps{
		ProductHandler:  storefront.NewProductHandler(productService, converter),
		CartHandler:     storefront.NewCartHandler(cartService, bookingMetrics),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService),
		AuthHandler:     storefront.NewAuthHandler(authService, cartService, converter),
		OrderHandler:    storefront.NewOrderHandler(orderService, cartService),
		CurrencyHandler: storefront.NewCurrencyHandler(converter),
		ContactHandler:  storefront.NewContactHandler(sender),
		SiteHandler:     storefront.NewSiteHandler(cfg.Contact.SiteKey, cfg.Contact.Number, cfg.BaseCurrency),
	}

	// Rate limiting
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	// Router and middleware chain
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.CORS(cfg.AllowedOrigins),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
		middleware.VisitorSession(cfg.Env == "prod"),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, deps)

	// Credential endpoints get the stricter limiter
	authRouter := r.Group(authRateLimiter.Middleware)
	authRouter.Post("/api/auth/login", deps.AuthHandler.Login)
	authRouter.Post("/api/auth/register", deps.AuthHandler.Register)

	// Serve with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Str("env", cfg.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
