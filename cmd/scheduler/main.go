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

	"github.com/nats-io/nats.go"

	"github.com/ramate-io/roadline-go/internal/rebuild"
	"github.com/ramate-io/roadline-go/internal/storage"
)

const version = "0.2.0"

var (
	dbHost     = flag.String("db-host", getEnv("DB_HOST", "localhost"), "Database host")
	dbPort     = flag.String("db-port", getEnv("DB_PORT", "5432"), "Database port")
	dbUser     = flag.String("db-user", getEnv("DB_USER", "roadline"), "Database user")
	dbPassword = flag.String("db-password", getEnv("DB_PASSWORD", "roadline_dev_password"), "Database password")
	dbName     = flag.String("db-name", getEnv("DB_NAME", "roadline"), "Database name")

	natsURL = flag.String("nats", getEnv("NATS_URL", "nats://localhost:4222"), "NATS server URL")

	defaultSchedule = flag.String("default-schedule", "0 0 * * * *", "Cron schedule applied to sources with no schedule recorded yet")
	timezone        = flag.String("timezone", "UTC", "Timezone the cron schedules are evaluated in")
)

// main runs the cron-driven side of rebuild distribution: it loads every
// source ever cached, keeps each one on a cron schedule, and on every tick
// enqueues a rebuild job onto NATS for one or more cmd/worker processes to
// pick up. It does no fetching or layout computation itself.
func main() {
	flag.Parse()

	log.Printf("Starting Roadline rebuild scheduler v%s", version)

	location, err := time.LoadLocation(*timezone)
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	db, err := initDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database connection established")
	defer db.Close()

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	enqueuer, err := rebuild.NewEnqueuer(nc)
	if err != nil {
		log.Fatalf("Failed to create enqueuer: %v", err)
	}

	documents := storage.NewDocumentRepository(db.DB)

	sched := rebuild.NewScheduler(location, func(sourceKey string) error {
		return enqueuer.Enqueue(sourceKey)
	})

	ctx := context.Background()
	known, err := documents.List(ctx, storage.DocumentFilters{})
	if err != nil {
		log.Fatalf("Failed to list known documents: %v", err)
	}

	for _, doc := range known {
		if err := sched.AddSource(doc.SourceKey, *defaultSchedule); err != nil {
			log.Printf("Warning: failed to schedule %s: %v", doc.SourceKey, err)
		}
	}
	log.Printf("Scheduled %d known source(s) on %q", len(known), *defaultSchedule)

	sched.Start()
	log.Println("Scheduler started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	sched.Stop()
	log.Println("Scheduler stopped gracefully")
}

func initDatabase() (*storage.DB, error) {
	config := &storage.Config{
		Host:        *dbHost,
		Port:        *dbPort,
		User:        *dbUser,
		Password:    *dbPassword,
		DBName:      *dbName,
		SSLMode:     "disable",
		MaxConns:    10,
		MinConns:    2,
		MaxIdleTime: 5 * time.Minute,
		MaxLifetime: 30 * time.Minute,
	}

	db, err := storage.NewDB(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrateConfig := &storage.MigrateConfig{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPassword,
		DBName:   *dbName,
		SSLMode:  "disable",
	}
	if err := storage.RunMigrations(migrateConfig, "./migrations"); err != nil {
		log.Printf("Warning: failed to run migrations: %v", err)
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
