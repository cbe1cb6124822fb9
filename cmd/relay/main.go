package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/signature"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/modules/relay/handlers"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/modules/relay/services"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/config"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/metrics"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/middleware"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/wa-order-relay/cmd/relay/docs"
)

// @title WhatsApp Order Relay API
// @version 1.0
// @description Relays WhatsApp Cloud API and Stripe webhooks into templated WhatsApp replies
// @contact.name API Support
// @license.name MIT
// @host localhost:3000
// @BasePath /
func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.InitLogger("development", "info")
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("🚀 Starting wa-order-relay")

	metrics.Register(prometheus.DefaultRegisterer)

	// Init WhatsApp Cloud API client
	waClient := whatsapp.NewCloudAPIClient(
		cfg.WhatsApp.APIBaseURL,
		cfg.WhatsApp.APIVersion,
		cfg.WhatsApp.AccessToken,
		cfg.HTTPClientTimeout,
	)
	utils.LogInfo("📱 Using WhatsApp provider: WhatsApp Cloud API (Official)", map[string]interface{}{
		"api_version":     cfg.WhatsApp.APIVersion,
		"phone_number_id": cfg.WhatsApp.PhoneNumberID,
		"business_id":     cfg.WhatsApp.BusinessAccountID,
	})

	// Init payment gateway (optional)
	var links payment.LinkCreator
	if cfg.PaymentsEnabled() {
		gateway, err := payment.NewStripeGateway(payment.StripeGatewayConfig{
			SecretKey:  cfg.Stripe.SecretKey,
			APIBaseURL: cfg.Stripe.APIBaseURL,
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
			Logger:     utils.StripeLogger{Logger: log.Logger},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize payment gateway")
		}
		links = gateway
		log.Info().Msg("💳 Stripe payment links enabled")
	} else {
		utils.LogWarn("⚠️  STRIPE_SECRET_KEY not set, order confirmations go out without payment links", nil)
	}
	if cfg.Stripe.WebhookSecret == "" {
		utils.LogWarn("⚠️  STRIPE_WEBHOOK_SECRET not set, /webhook/stripe will reject every delivery", nil)
	}

	// Init services
	messageService := services.NewMessageService(waClient, links, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.MarkAsRead)
	paymentService := services.NewPaymentService(waClient, cfg.WhatsApp.PhoneNumberID)

	// Init handlers
	webhookHandler := handlers.NewWebhookHandler(cfg.WhatsApp, messageService)
	stripeHandler := handlers.NewStripeHandler(signature.NewStripeVerifier(cfg.Stripe.WebhookSecret), paymentService)
	healthHandler := handlers.NewHealthHandler(cfg.Env, cfg.PaymentsEnabled())

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "WhatsApp Order Relay",
		ErrorHandler:          apperror.FiberErrorHandler,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger())
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, webhookHandler, stripeHandler, healthHandler)

	go func() {
		log.Info().Msgf("✅ wa-order-relay running at :%s", cfg.Port)
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			utils.LogError("❌ Server stopped", err, map[string]interface{}{"port": cfg.Port})
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("❌ Shutdown failed")
	}
	log.Info().Msg("Goodbye 👋")
}
