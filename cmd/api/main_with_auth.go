//go:build with_auth

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/passbi/passbi_core/internal/api"
	"github.com/passbi/passbi_core/internal/cache"
	"github.com/passbi/passbi_core/internal/db"
	"github.com/passbi/passbi_core/internal/graph"
	"github.com/passbi/passbi_core/internal/middleware"
)

func main() {
	log.Println("Starting PassBi API server...")

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Database connection established")

	rdb, err := cache.GetClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.Close()
	log.Println("✓ Redis connection established")

	stochasticGraph, err := graph.LoadStochasticFromDB(context.Background(), pool)
	if err != nil {
		log.Printf("Warning: stochastic graph not loaded: %v", err)
	} else {
		graph.SetStochasticGraph(stochasticGraph)
		log.Printf("✓ Stochastic graph loaded (%d stops)", stochasticGraph.StopCount())
	}

	enableAuth := getEnvBool("ENABLE_AUTH", true)
	enableRateLimit := getEnvBool("ENABLE_RATE_LIMIT", true)
	enableAnalytics := getEnvBool("ENABLE_ANALYTICS", true)

	log.Printf("Configuration: Auth=%v, RateLimit=%v, Analytics=%v", enableAuth, enableRateLimit, enableAnalytics)

	app := fiber.New(fiber.Config{
		AppName:      "PassBi API v2.0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":          "PassBi Core API",
			"version":       "2.0.0",
			"documentation": "https://docs.passbi.com",
			"status":        "operational",
			"authentication": map[string]interface{}{
				"enabled": enableAuth,
				"type":    "Bearer Token (API Key)",
				"format":  "Authorization: Bearer pk_live_...",
			},
		})
	})

	app.Get("/health", api.Health)

	// ============================================
	// API V2 - Protected stochastic-route endpoints
	// ============================================
	v2 := app.Group("/v2")

	if enableAuth {
		v2.Use(middleware.AuthMiddleware(pool))
		log.Println("✓ Authentication middleware enabled")
	}
	if enableRateLimit && enableAuth {
		v2.Use(middleware.RateLimitMiddleware(rdb))
		log.Println("✓ Rate limiting middleware enabled")
	}
	if enableAnalytics && enableAuth {
		v2.Use(middleware.AnalyticsMiddleware(pool))
		log.Println("✓ Analytics middleware enabled")
	}

	v2.Get("/stochastic-route", api.StochasticRouteSearch)
	v2.Get("/robust-route", api.RobustRouteSearch)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error":   "not_found",
			"message": "The requested endpoint does not exist",
			"path":    c.Path(),
		})
	})

	port := getEnv("API_PORT", "8080")
	addr := fmt.Sprintf(":%s", port)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("\n⚠️  Received shutdown signal...")
		log.Println("Closing database connections...")
		db.Close()
		log.Println("Closing Redis connections...")
		cache.Close()
		log.Println("Shutting down server...")

		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		log.Println("✓ Server shut down gracefully")
	}()

	log.Println("═══════════════════════════════════════════════════")
	log.Printf("🚀 PassBi API Server Started")
	log.Printf("📍 Listening on: http://localhost%s", addr)
	log.Println("═══════════════════════════════════════════════════")
	log.Println("Available Endpoints:")
	log.Printf("  GET  /                     - API information")
	log.Printf("  GET  /health               - Health check")
	log.Printf("  GET  /v2/stochastic-route  - Stochastic route search")
	log.Printf("  GET  /v2/robust-route      - Robust multi-route search")
	log.Println("═══════════════════════════════════════════════════")

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// customErrorHandler handles errors returned from handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error [%s %s]: %v", c.Method(), c.Path(), err)

	return c.Status(code).JSON(fiber.Map{
		"error":   "internal_error",
		"message": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
