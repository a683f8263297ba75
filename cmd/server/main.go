package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/techhaven/storefront/internal/config"
	"github.com/techhaven/storefront/internal/emailcheck"
	"github.com/techhaven/storefront/internal/handlers"
	"github.com/techhaven/storefront/internal/middleware"
	"github.com/techhaven/storefront/internal/notify"
	"github.com/techhaven/storefront/internal/payment"
	"github.com/techhaven/storefront/internal/repository"
	"github.com/techhaven/storefront/internal/repository/mysql"
	"github.com/techhaven/storefront/internal/repository/redisstore"
	"github.com/techhaven/storefront/internal/service"
	"github.com/techhaven/storefront/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Disposable-email blocklist (optional)
	var blocklist *emailcheck.Blocklist
	if cfg.Blocklist.URL != "" {
		blocklist = emailcheck.NewBlocklist()
		if err := blocklist.LoadFromURL(ctx, cfg.Blocklist.URL); err != nil {
			log.Error("failed to load email blocklist", "url", cfg.Blocklist.URL, "error", err)
			os.Exit(1)
		}
		log.Info("email blocklist loaded", "domains", blocklist.Size())
	}

	// Order storage
	var orderRepo repository.OrderRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("mysql", cfg.Database.DSN)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		orderRepo = mysql.NewOrderRepository(db)
		log.Info("order storage: mysql")
	} else {
		orderRepo = repository.NewInMemoryOrderRepository()
		log.Warn("MYSQL_DSN not set, orders are held in memory")
	}

	// OTP storage
	var otpRepo repository.OTPRepository
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}
		otpRepo = redisstore.NewOTPRepository(rdb)
		log.Info("otp storage: redis", "addr", cfg.Redis.Addr)
	} else {
		otpRepo = repository.NewInMemoryOTPRepository()
		log.Warn("REDIS_ADDR not set, otp codes are held in memory")
	}

	// Email notifications
	var notifier notify.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.ReceiptTopic, cfg.Kafka.VerificationTopic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		log.Info("notifications: kafka", "brokers", cfg.Kafka.Brokers)
	} else {
		notifier = notify.NewLogNotifier(log)
		log.Warn("KAFKA_BROKERS not set, notifications are log-only")
	}

	// Payment provider
	provider := payment.NewStripeProvider(cfg.Stripe.SecretKey)

	// Initialize repositories and services
	productRepo := repository.NewInMemoryProductRepository()
	productService := service.NewProductService(productRepo)

	checkoutService := service.NewCheckoutService(provider, orderRepo, service.CheckoutConfig{
		SuccessURL:       cfg.Stripe.BaseURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        cfg.Stripe.BaseURL + "/payment-canceled",
		Currency:         cfg.Stripe.Currency,
		AllowedCountries: cfg.Stripe.AllowedCountries,
	}, log)
	receiptService := service.NewReceiptService(provider, orderRepo, notifier, cfg.Stripe.BaseURL, log)
	otpService := service.NewOTPService(otpRepo, notifier, blocklist, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)
	receiptHandler := handlers.NewReceiptHandler(receiptService, log)
	otpHandler := handlers.NewOTPHandler(otpService, log)
	orderHandler := handlers.NewOrderHandler(orderRepo, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)

		// Checkout and payment confirmation
		r.Post("/checkout", checkoutHandler.CreateSession)
		r.Post("/receipt", receiptHandler.SendReceipt)

		// Email verification
		r.Post("/otp/send", otpHandler.Send)
		r.Post("/otp/verify", otpHandler.Verify)

		// Admin endpoints, API-key protected
		if len(cfg.Auth.APIKeys) > 0 {
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKeyAuth(cfg.Auth))
				r.Get("/orders", orderHandler.ListOrders)
			})
		} else {
			log.Warn("API_KEYS not set, admin endpoints are disabled")
		}
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
