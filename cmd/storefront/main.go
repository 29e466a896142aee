package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/WasepSKT/commerce-web-sub003/internal/cart"
	"github.com/WasepSKT/commerce-web-sub003/internal/catalog"
	"github.com/WasepSKT/commerce-web-sub003/internal/checkout"
	h "github.com/WasepSKT/commerce-web-sub003/internal/http"
	"github.com/WasepSKT/commerce-web-sub003/internal/metrics"
	"github.com/WasepSKT/commerce-web-sub003/internal/orders"
	"github.com/WasepSKT/commerce-web-sub003/internal/orders/publisher"
	"github.com/WasepSKT/commerce-web-sub003/internal/payment"
	"github.com/WasepSKT/commerce-web-sub003/internal/proxy"
	"github.com/WasepSKT/commerce-web-sub003/internal/ratelimit"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	CatalogDBPath   string
	CatalogMigrPath string
	KafkaBrokers    []string

	PaymentGatewayURL string
	PaymentAPIKey     string

	CaptchaSecret    string
	CaptchaVerifyURL string

	AuthTokenURL   string
	ServiceRoleKey string

	MaintenanceAuth    bool
	MaintenanceProduct bool
	ShopeeURL          string
	TokopediaURL       string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	RefreshRateLimit  int
	RefreshRateWindow time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "./catalog.db"),
		CatalogMigrPath: getEnv("CATALOG_MIGRATIONS_PATH", "./internal/catalog/migrations"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		PaymentGatewayURL: getEnv("PAYMENT_GATEWAY_URL", "http://localhost:9090"),
		PaymentAPIKey:     getEnv("PAYMENT_API_KEY", ""),

		CaptchaSecret:    getEnv("CAPTCHA_SECRET", ""),
		CaptchaVerifyURL: getEnv("CAPTCHA_VERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify"),

		AuthTokenURL:   getEnv("AUTH_TOKEN_URL", ""),
		ServiceRoleKey: getEnv("SERVICE_ROLE_KEY", ""),

		MaintenanceAuth:    getEnv("MAINTENANCE_AUTH", "") == "true",
		MaintenanceProduct: getEnv("MAINTENANCE_PRODUCT", "") == "true",
		ShopeeURL:          getEnv("SHOPEE_URL", ""),
		TokopediaURL:       getEnv("TOKOPEDIA_URL", ""),

		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		RefreshRateLimit:  20,
		RefreshRateWindow: 60 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront starting...")

	cfg := loadConfig()

	// Catalog database
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.CatalogMigrPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Println("Catalog migrations completed")

	// Orders database
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	creds := &orders.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              dbPort,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "storefront"),
		MigrationsDirPath: getEnv("ORDERS_MIGRATIONS_PATH", "./internal/orders/migrations"),
	}
	ordersRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to orders database: %v", err)
	}
	defer ordersRepo.Close()

	if err := ordersRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run orders migrations: %v", err)
	}
	log.Println("Orders migrations completed")

	// Redis: cart storage, product cache, refresh rate limiter
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	cartService := cart.NewService(cart.NewRedisStore(redisClient))
	catalogService := catalog.NewService(catalogRepo, catalog.NewRedisCache(redisClient))
	limiter := ratelimit.NewRedisLimiter(redisClient, cfg.RefreshRateLimit, cfg.RefreshRateWindow)

	paymentClient := payment.NewClient(cfg.PaymentGatewayURL, cfg.PaymentAPIKey)
	checkoutService := checkout.NewService(cartService, catalogService, ordersRepo, paymentClient)

	// Outbox publisher
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := publisher.NewOutboxPoller(ordersRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	collector := metrics.NewCollector()

	router := h.NewRouter(
		h.RouterConfig{
			RequestTimeout:     cfg.RequestTimeout,
			MaintenanceAuth:    cfg.MaintenanceAuth,
			MaintenanceProduct: cfg.MaintenanceProduct,
			ShopeeURL:          cfg.ShopeeURL,
			TokopediaURL:       cfg.TokopediaURL,
		},
		h.Handlers{
			Products: h.NewProductHandler(catalogService, cfg.RequestTimeout),
			Carts:    h.NewCartHandler(cartService, cfg.RequestTimeout),
			Checkout: h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
			Captcha:  proxy.NewCaptchaHandler(cfg.CaptchaSecret, cfg.CaptchaVerifyURL, nil),
			Refresh:  proxy.NewRefreshHandler(cfg.AuthTokenURL, cfg.ServiceRoleKey, limiter, nil),
		},
		collector,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
