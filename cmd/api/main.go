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

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-ai/pkg/validator"

	"github.com/johnquangdev/meeting-ai/internal/adapter/handler"
	aiuse "github.com/johnquangdev/meeting-ai/internal/usecase/ai"
	"github.com/johnquangdev/meeting-ai/internal/usecase/pipeline"
	pkgai "github.com/johnquangdev/meeting-ai/pkg/ai"
	"github.com/johnquangdev/meeting-ai/pkg/config"
)

// @title           Meeting AI API
// @version         1.0
// @description     Resilient text-extraction pipeline turning meeting transcripts into cleaned text, speaker segments, structured summaries and action items

// @contact.name   API Support

// @host      localhost:8001
// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// Assign a request ID when the client did not send one; response logging
	// keys on it.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Request-ID") == "" {
				c.Request().Header.Set("X-Request-ID", uuid.NewString())
			}
			return next(c)
		}
	})

	// CORS middleware. Running ahead of the handlers means error responses
	// carry the headers too.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	var slots []pkgai.Generator
	if cfg.OpenAI.APIKey != "" {
		slots = append(slots, pkgai.NewOpenAIClient(&cfg.OpenAI))
		log.Println("✅ OpenAI slot configured")
	}
	if cfg.Gemini.APIKey != "" {
		slots = append(slots, pkgai.NewGeminiClient(&cfg.Gemini))
		log.Println("✅ Gemini slot configured")
	}
	if len(slots) == 0 {
		log.Println("⚠️  No generative backend configured, running rule-based only")
	}
	gateway := pkgai.NewGateway(logger, slots...)
	transcriber := pkgai.NewTranscriber(&cfg.Assembly, logger)
	if !transcriber.Available() {
		log.Println("⚠️  Speech-to-text not configured, audio endpoints will fail")
	}

	// Initialize pipeline
	log.Println("⚙️  Initializing pipeline...")
	orch := aiuse.NewOrchestrator(gateway, transcriber, cfg.Pipeline, logger)
	pipe := pipeline.New(orch, cfg.Pipeline, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	minutesHandler := handler.NewMinutes(pipe, orch, logger)
	router := handler.NewRouter(cfg, minutesHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
