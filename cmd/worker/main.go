package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ramate-io/roadline-go/internal/dlq"
	"github.com/ramate-io/roadline-go/internal/githubsource"
	"github.com/ramate-io/roadline-go/internal/notify"
	"github.com/ramate-io/roadline-go/internal/rebuild"
	"github.com/ramate-io/roadline-go/internal/storage"
)

const version = "0.4.0"

func main() {
	natsURL := flag.String("nats", getEnv("NATS_URL", "nats://localhost:4222"), "NATS server URL")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "Time to wait for in-flight jobs to drain")
	flag.Parse()

	log.Printf("Starting Roadline rebuild worker v%s", version)
	log.Printf("NATS URL: %s", *natsURL)

	dbCfg := &storage.Config{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        getEnv("DB_PORT", "5432"),
		User:        getEnv("DB_USER", "roadline"),
		Password:    getEnv("DB_PASSWORD", "roadline_dev_password"),
		DBName:      getEnv("DB_NAME", "roadline"),
		SSLMode:     getEnv("DB_SSLMODE", "disable"),
		MaxConns:    10,
		MinConns:    2,
		MaxIdleTime: 5 * time.Minute,
		MaxLifetime: 30 * time.Minute,
	}

	db, err := storage.NewDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
	})
	defer redisClient.Close()

	documents := storage.NewDocumentRepository(db.DB)

	ghClient := githubsource.NewClient()
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ghClient = ghClient.WithToken(token)
	}
	ghCache := githubsource.NewETagCache(redisClient)

	publisher := notify.NewRedisPublisher(redisClient)

	rebuildSource := rebuild.NewGitHubRebuildFunc(ghClient, ghCache, documents, publisher)

	dlqManager := dlq.NewManager(dlq.NewMemoryQueue(), 0)
	dlqManager.OnEntryAdded(func(entry *dlq.Entry) {
		log.Printf("rebuild: dead-lettered source %s: %s", entry.SourceKey, entry.ErrorMessage)
	})

	worker, err := rebuild.NewDistributedWorker(*natsURL, rebuildSource, *shutdownTimeout)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	worker = worker.WithDLQ(dlqManager)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := worker.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Printf("Worker %s started and ready to process rebuild jobs", worker.GetID())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer shutdownCancel()

	if err := worker.Stop(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Worker stopped successfully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
