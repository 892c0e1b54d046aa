package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bananalabs-oss/potassium/config"
	"github.com/fastbite/party-service/internal/catalog"
	"github.com/fastbite/party-service/internal/database"
	"github.com/fastbite/party-service/internal/notify"
	"github.com/fastbite/party-service/internal/party"
	"github.com/fastbite/party-service/internal/poller"
	"github.com/fastbite/party-service/internal/router"
	"github.com/fastbite/party-service/internal/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Printf("Starting FastBite party service")

	jwtSecret := config.RequireEnv("JWT_SECRET")
	databaseURL := config.EnvOrDefault("DATABASE_URL", "sqlite://fastbite.db")
	redisAddr := config.EnvOrDefault("REDIS_ADDR", "localhost:6379")
	redisPassword := config.EnvOrDefault("REDIS_PASSWORD", "")
	kafkaBrokers := config.EnvOrDefault("KAFKA_BROKERS", "")
	publicURL := config.EnvOrDefault("PUBLIC_URL", "http://localhost:8004")
	host := config.EnvOrDefault("HOST", "0.0.0.0")
	port := config.EnvOrDefault("PORT", "8004")

	log.Printf("Party Service Configuration:")
	log.Printf("  Host:     %s", host)
	log.Printf("  Port:     %s", port)
	log.Printf("  Database: %s", databaseURL)
	log.Printf("  Redis:    %s", redisAddr)

	ctx := context.Background()

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Printf("Redis ping succeeded")

	partyStore := store.NewRedisStore(redisClient)
	notifier := notify.NewRedisNotifier(redisClient)
	dishes := catalog.NewRepository(db)

	locks := party.NewLocks()
	partyService := party.NewService(partyStore, notifier, locks)
	cartService := party.NewCartService(partyStore, dishes, notifier, locks)

	partyHandler := party.NewHandler(partyService, cartService, notifier, publicURL)
	menuHandler := catalog.NewHandler(dishes)

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if kafkaBrokers != "" {
		p := poller.NewPoller(cartService, strings.Split(kafkaBrokers, ",")...)
		defer p.Close()
		go p.Run(pollerCtx)
		log.Printf("Order-completed consumer started on %s", kafkaBrokers)
	}

	r := router.Setup(partyHandler, menuHandler, jwtSecret)

	addr := fmt.Sprintf("%s:%s", host, port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Printf("Party service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutting down party service...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Printf("Party service stopped")
}
