package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmktreeservices/website/internal"
	"github.com/lmktreeservices/website/internal/email"
	"github.com/lmktreeservices/website/internal/handler"
	"github.com/lmktreeservices/website/internal/metrics"
	"github.com/lmktreeservices/website/internal/middleware"
	"github.com/lmktreeservices/website/internal/service"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize template renderer
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		TemplatesDir: "web/templates",
		Logger:       logger,
		IsDev:        cfg.Env == "development",
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	// Initialize the mail sender. A nil sender means quote submissions are
	// answered with "Email service not configured" instead of dropped.
	var sender email.Sender
	if cfg.MailConfigured() {
		switch cfg.MailProvider {
		case "sendgrid":
			sender = email.NewSendGridSender(email.SendGridConfig{
				APIKey:   cfg.SendGridAPIKey,
				From:     cfg.SMTPFrom,
				FromName: cfg.SMTPFromName,
			}, logger)
			logger.Info("Mail sender ready", "provider", "sendgrid")
		default:
			sender = email.NewSMTPSender(email.SMTPConfig{
				Host:     cfg.SMTPHost,
				Port:     cfg.SMTPPort,
				Username: cfg.SMTPUsername,
				Password: cfg.SMTPPassword,
				From:     cfg.SMTPFrom,
				FromName: cfg.SMTPFromName,
			}, logger)
			logger.Info("Mail sender ready", "provider", "smtp", "host", cfg.SMTPHost)
		}
	} else {
		logger.Warn("Mail credentials absent, quote submissions will be rejected")
	}

	// Initialize services
	quoteService, err := service.NewQuoteService(sender, service.QuoteConfig{
		FromEmail:         cfg.SMTPFrom,
		FromName:          cfg.SMTPFromName,
		NotificationEmail: cfg.NotificationEmail,
	}, "web/templates", logger)
	if err != nil {
		return fmt.Errorf("quote service initialization failed: %w", err)
	}

	// Initialize handlers
	pageHandler := handler.NewPageHandler(renderer, logger)
	consultationHandler := handler.NewConsultationHandler(quoteService, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServer(http.Dir("web/static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// Health check
	mux.HandleFunc("GET /health", pageHandler.Health)

	// Prometheus metrics (basic auth when credentials are configured)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Public pages
	mux.HandleFunc("GET /", pageHandler.Home)
	mux.HandleFunc("GET /tree-removal/berwick", pageHandler.TreeRemovalBerwick)
	mux.HandleFunc("GET /tree-removal/beaconsfield", pageHandler.TreeRemovalBeaconsfield)

	// Quote request API
	mux.HandleFunc("POST /api/consultation", consultationHandler.Submit)

	// Outermost first: request ID, then logging, metrics, security headers
	stack := middleware.Stack(
		middleware.RequestID,
		loggingMw.Handler,
		metrics.Middleware,
		securityMw.Handler,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: stack(mux),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
