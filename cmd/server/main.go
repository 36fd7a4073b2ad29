package main // Entry point package

import (
	"log" // Logging library
	"os"
	"path/filepath"

	"github.com/joho/godotenv"    // Optional .env loading for local runs
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/anveshk/rideshare-board/internal/config"     // Internal config loader
	"github.com/anveshk/rideshare-board/internal/handler"    // HTTP handlers
	"github.com/anveshk/rideshare-board/internal/middleware" // Session auth and rate limiting
	"github.com/anveshk/rideshare-board/internal/queue"      // OTP delivery consumer
	"github.com/anveshk/rideshare-board/internal/repository" // CSV-backed repositories
	"github.com/anveshk/rideshare-board/internal/router"     // Route registration
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	rides := repository.NewRideRepo(filepath.Join(cfg.DataDir, "rides.csv"))
	users := repository.NewUserRepo(filepath.Join(cfg.DataDir, "users.csv"))
	sessions := repository.NewSessionRepo(filepath.Join(cfg.DataDir, "sessions.csv"))
	otps := repository.NewOTPRepo(filepath.Join(cfg.DataDir, "otp_sessions.csv"))
	conversations := repository.NewConversationRepo(filepath.Join(cfg.DataDir, "conversations.csv"))
	messages := repository.NewMessageRepo(filepath.Join(cfg.DataDir, "messages.csv"))

	// Create the store files up front so every request path finds them
	// in place with their header lines written.
	stores := []interface{ Initialize() error }{rides, users, sessions, otps, conversations, messages}
	for _, s := range stores {
		if err := s.Initialize(); err != nil {
			log.Fatalf("initialize store: %v", err)
		}
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	sessionAuth := middleware.SessionAuth(sessions, users)

	authHandler := handler.NewAuthHandler(cfg, users, sessions, otps)
	rideHandler := handler.NewRideHandler(rides)
	messageHandler := handler.NewMessageHandler(users, rides, conversations, messages)

	// The OTP consumer tails the broker queue and writes delivery logs.
	// Only started when a broker is configured; it reconnects forever
	// on its own once running.
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		go func() {
			if err := queue.StartOTPConsumer(); err != nil {
				log.Printf("otp consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e, authHandler, rideHandler, messageHandler, sessionAuth, limiter)

	addr := ":" + cfg.Port                                                   // Address string with port
	log.Printf("listening on %s (env=%s, data=%s)", addr, cfg.Env, cfg.DataDir) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
