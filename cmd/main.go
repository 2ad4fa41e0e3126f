package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reuse-gateway/internal/auth"
	authconfig "reuse-gateway/internal/auth/config"
	"reuse-gateway/internal/gateway"
	gatewayconfig "reuse-gateway/internal/gateway/config"
	"reuse-gateway/internal/platform/redisstore"
	apperrors "reuse-gateway/internal/shared/errors"
	"reuse-gateway/internal/shared/logger"
	"reuse-gateway/internal/shared/metrics"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host      string `env:"SERVER_HOST" envDefault:"localhost"`
	Port      string `env:"SERVER_PORT" envDefault:"3000"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./web"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()

	// A missing signing secret is fatal here: the gateway must not come up
	// in a state where it could issue unsigned tokens.
	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	gatewayCfg, err := gatewayconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load gateway configuration: %v", err)
	}

	// Credential store: Mongo when configured, in-memory otherwise
	var mongoDB *mongo.Database
	if authCfg.MongoDBURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(authCfg.MongoDBURI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Errorf("Failed to disconnect MongoDB: %v", err)
			}
		}()

		if err := mongoClient.Ping(ctx, nil); err != nil {
			log.Fatalf("Failed to ping MongoDB: %v", err)
		}
		mongoDB = mongoClient.Database(authCfg.DatabaseName)
		appLogger.Info("MongoDB connection established")
	} else {
		appLogger.Warn("MONGODB_URI not set, using in-memory credential store")
	}

	// Rate limiter storage: Redis when configured
	var limiterStorage fiber.Storage
	if serverCfg.RedisAddr != "" {
		redisClient := redisstore.NewClient(serverCfg.RedisAddr, serverCfg.RedisPassword, serverCfg.RedisDB)
		defer redisClient.Close()
		limiterStorage = redisstore.New(redisClient)
		appLogger.Infof("Rate limiter backed by Redis at %s", serverCfg.RedisAddr)
	}

	appMetrics := metrics.New()

	authModule, err := auth.NewAuthModule(mongoDB, authCfg, appLogger, appMetrics, limiterStorage)
	if err != nil {
		log.Fatalf("Failed to initialize auth module: %v", err)
	}

	if authCfg.SeedDemoUser {
		if err := authModule.SeedDemoUser(context.Background()); err != nil {
			appLogger.Errorf("Failed to seed demo user: %v", err)
		}
	}

	gatewayModule := gateway.NewGatewayModule(gatewayCfg, appLogger, appMetrics)

	app := fiber.New(fiber.Config{
		AppName:      "ReUSE Gateway v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appLogger.Errorf("HTTP error: %v", err)
			status := apperrors.HTTPStatus(err)
			message := "internal server error"
			if apperrors.IsAuthenticationError(err) {
				message = "not authenticated"
			}
			return c.Status(status).JSON(fiber.Map{
				"message": message,
			})
		},
	})

	app.Use(recover.New())
	app.Use(authModule.GetMiddleware().RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Guard page routes before any handler sees them
	app.Use(authModule.Guard())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(appMetrics.Registry, promhttp.HandlerOpts{})))

	authModule.RegisterRoutes(app)
	gatewayModule.RegisterRoutes(app)

	// Marketplace pages are a static bundle behind the guard
	if _, err := os.Stat(serverCfg.StaticDir); err == nil {
		app.Static("/", serverCfg.StaticDir)
	}

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
