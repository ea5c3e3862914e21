package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewops/internal/cache"
	"brewops/internal/config"
	"brewops/internal/model"
	"brewops/internal/router"
	"brewops/internal/ws"
	"brewops/pkg/database"
	"brewops/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config
	cfg := config.Load()
	jwt.SetSecret(cfg.JWTSecret)

	// 2. Setup Database
	db := database.MustConnect(database.Options{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		LogSQL:      cfg.DBLog,
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Price cache: Redis when configured and reachable
	var prices cache.PriceCache = cache.NoopPriceCache{}
	var redisCache *cache.RedisPriceCache
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisPriceCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Printf("Warning: redis at %s unreachable, price cache disabled: %v", cfg.RedisAddr, err)
			rc.Close()
		} else {
			prices = rc
			redisCache = rc
			log.Printf("Price cache: redis %s (ttl %ds)", cfg.RedisAddr, cfg.PriceCacheTTLSeconds)
		}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	services := router.NewServices(db, wsHub, prices, time.Duration(cfg.PriceCacheTTLSeconds)*time.Second)

	// 6. Seed privileges, roles, admin user and settings
	ctx := context.Background()
	if err := services.Auth.Seed(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Printf("Warning: Failed to seed auth data: %v", err)
	}
	if err := services.Setting.SeedDefaults(ctx, cfg.DefaultKegDepositPrice); err != nil {
		log.Printf("Warning: Failed to seed settings: %v", err)
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	router.Setup(app, services, wsHub)

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Printf("Warning: closing redis: %v", err)
		}
	}

	log.Println("Server exited")
}
