package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tankbill/internal/caching"
	"tankbill/internal/handlers"
	"tankbill/internal/jobs/background"
	"tankbill/internal/middleware"
	"tankbill/internal/repositories"
	"tankbill/internal/services"
	"tankbill/pkg/database"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Warn().Msg("JWT_SECRET not set, using generated secret; tokens will not survive restarts")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MinIO service")
	}

	// Payment gateway configuration
	gatewayKey := os.Getenv("GATEWAY_API_KEY")
	gatewaySecret := os.Getenv("GATEWAY_API_SECRET")
	gatewayWebhookSecret := os.Getenv("GATEWAY_WEBHOOK_SECRET")
	if gatewayWebhookSecret == "" {
		log.Warn().Msg("GATEWAY_WEBHOOK_SECRET not set, webhook verification will reject all events")
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	supplierRepo := repositories.NewSupplierRepository(pool)
	societyRepo := repositories.NewSocietyRepository(pool)
	driverRepo := repositories.NewDriverRepository(pool)
	vehicleRepo := repositories.NewVehicleRepository(pool)
	collectionRepo := repositories.NewCollectionRepository(pool)
	deliveryRepo := repositories.NewDeliveryRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	subscriptionRepo := repositories.NewSubscriptionRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(cacheSvc, jwtSecret, 3600, 7*24*3600)
	tenantSvc := services.NewTenantService(tenantRepo)
	supplierSvc := services.NewSupplierService(supplierRepo)
	societySvc := services.NewSocietyService(societyRepo)
	driverSvc := services.NewDriverService(driverRepo)
	vehicleSvc := services.NewVehicleService(vehicleRepo)
	collectionSvc := services.NewCollectionService(collectionRepo, supplierRepo, vehicleRepo)
	deliverySvc := services.NewDeliveryService(deliveryRepo, societyRepo, vehicleRepo)
	expenseSvc := services.NewExpenseService(expenseRepo, driverRepo)
	invoiceSvc := services.NewInvoiceService(pool, invoiceRepo, collectionRepo, deliveryRepo, supplierRepo, societyRepo, cacheSvc)
	paymentSvc := services.NewPaymentService(pool, paymentRepo, invoiceRepo, expenseRepo, cacheSvc)
	reconciliationSvc := services.NewReconciliationService(invoiceRepo, paymentRepo, collectionRepo, deliveryRepo, supplierRepo, societyRepo, cacheSvc)
	statementSvc := services.NewStatementService(reconciliationSvc, supplierSvc, collectionSvc)
	gatewaySvc := services.NewGatewayService(gatewayKey, gatewaySecret, gatewayWebhookSecret)
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, gatewaySvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, tenantSvc, userRepo)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc, reconciliationSvc, statementSvc)
	societyHandlers := handlers.NewSocietyHandlers(societySvc, reconciliationSvc)
	driverHandlers := handlers.NewDriverHandlers(driverSvc)
	vehicleHandlers := handlers.NewVehicleHandlers(vehicleSvc)
	collectionHandlers := handlers.NewCollectionHandlers(collectionSvc)
	deliveryHandlers := handlers.NewDeliveryHandlers(deliverySvc)
	expenseHandlers := handlers.NewExpenseHandlers(expenseSvc, paymentSvc, minioSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, paymentSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc, gatewaySvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(subscriptionSvc, cacheSvc, tenantRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job scheduler")
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop job scheduler")
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.Readiness)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Gateway webhooks authenticate via HMAC signature, not JWT
	v1.POST("/webhooks/gateway", subscriptionHandlers.GatewayWebhook)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(userRepo, jwtSecret))

	// Supplier routes
	protected.GET("/suppliers", supplierHandlers.ListSuppliers)
	protected.POST("/suppliers", supplierHandlers.CreateSupplier)
	protected.GET("/suppliers/:id", supplierHandlers.GetSupplier)
	protected.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier)
	protected.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier)
	protected.GET("/suppliers/:id/outstanding", supplierHandlers.GetSupplierOutstanding)
	protected.GET("/suppliers/:id/monthly-summary", supplierHandlers.GetSupplierMonthlySummary)
	protected.GET("/suppliers/:id/statement.xlsx", supplierHandlers.ExportSupplierStatement)

	// Society routes
	protected.GET("/societies", societyHandlers.ListSocieties)
	protected.POST("/societies", societyHandlers.CreateSociety)
	protected.GET("/societies/:id", societyHandlers.GetSociety)
	protected.PUT("/societies/:id", societyHandlers.UpdateSociety)
	protected.DELETE("/societies/:id", societyHandlers.DeleteSociety)
	protected.GET("/societies/:id/outstanding", societyHandlers.GetSocietyOutstanding)
	protected.GET("/societies/:id/monthly-summary", societyHandlers.GetSocietyMonthlySummary)

	// Driver routes
	protected.GET("/drivers", driverHandlers.ListDrivers)
	protected.POST("/drivers", driverHandlers.CreateDriver)
	protected.GET("/drivers/:id", driverHandlers.GetDriver)
	protected.PUT("/drivers/:id", driverHandlers.UpdateDriver)
	protected.DELETE("/drivers/:id", driverHandlers.DeleteDriver)

	// Vehicle routes
	protected.GET("/vehicles", vehicleHandlers.ListVehicles)
	protected.POST("/vehicles", vehicleHandlers.CreateVehicle)
	protected.GET("/vehicles/:id", vehicleHandlers.GetVehicle)
	protected.PUT("/vehicles/:id", vehicleHandlers.UpdateVehicle)
	protected.DELETE("/vehicles/:id", vehicleHandlers.DeleteVehicle)

	// Collection routes
	protected.GET("/collections", collectionHandlers.ListCollections)
	protected.POST("/collections", collectionHandlers.CreateCollection)
	protected.GET("/collections/unbilled", collectionHandlers.ListUnbilledCollections)
	protected.GET("/collections/:id", collectionHandlers.GetCollection)
	protected.PUT("/collections/:id/complete", collectionHandlers.CompleteCollection)

	// Delivery routes
	protected.GET("/deliveries", deliveryHandlers.ListDeliveries)
	protected.POST("/deliveries", deliveryHandlers.CreateDelivery)
	protected.GET("/deliveries/:id", deliveryHandlers.GetDelivery)
	protected.PUT("/deliveries/:id/complete", deliveryHandlers.CompleteDelivery)

	// Expense routes
	protected.GET("/expenses", expenseHandlers.ListExpenses)
	protected.POST("/expenses", expenseHandlers.CreateExpense)
	protected.GET("/expenses/:id", expenseHandlers.GetExpense)
	protected.PUT("/expenses/:id/approve", expenseHandlers.ApproveExpense)
	protected.PUT("/expenses/:id/reject", expenseHandlers.RejectExpense)
	protected.PUT("/expenses/:id/assign", expenseHandlers.AssignExpenseCharge)
	protected.POST("/expenses/:id/pay", expenseHandlers.PayExpense)
	protected.POST("/expenses/:id/receipt", expenseHandlers.UploadReceipt)
	protected.GET("/expenses/:id/receipt", expenseHandlers.GetReceiptURL)

	// Invoice routes
	protected.GET("/invoices", invoiceHandlers.ListInvoices)
	protected.POST("/invoices/generate", invoiceHandlers.GenerateInvoice)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	protected.PUT("/invoices/:id/send", invoiceHandlers.SendInvoice)
	protected.PUT("/invoices/:id/cancel", invoiceHandlers.CancelInvoice)

	// Payment routes
	protected.GET("/payments", paymentHandlers.ListPayments)
	protected.POST("/payments", paymentHandlers.RecordPayment)
	protected.GET("/payments/:id", paymentHandlers.GetPayment)

	// Subscription routes
	protected.GET("/subscription", subscriptionHandlers.GetSubscription)
	protected.POST("/subscription", subscriptionHandlers.Subscribe)
	protected.DELETE("/subscription", subscriptionHandlers.CancelSubscription)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatal().Str("port", portStr).Err(err).Msg("Invalid port")
	}

	log.Info().Str("version", version).Int("port", port).Msg("tankbill server starting")

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
