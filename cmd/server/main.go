package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ramate-io/roadline-go/internal/githubsource"
	"github.com/ramate-io/roadline-go/internal/notify"
	"github.com/ramate-io/roadline-go/internal/rebuild"
	"github.com/ramate-io/roadline-go/internal/storage"
	"github.com/ramate-io/roadline-go/pkg/api/dto"
	"github.com/ramate-io/roadline-go/pkg/api/handlers"
	"github.com/ramate-io/roadline-go/pkg/api/middleware"
)


const version = "0.1.0"

func main() {
	log.Printf("Starting Roadline server v%s", version)

	env := getEnv("ENV", "development")
	port := getEnv("PORT", "8080")

	dbCfg := &storage.Config{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        getEnv("DB_PORT", "5432"),
		User:        getEnv("DB_USER", "roadline"),
		Password:    getEnv("DB_PASSWORD", "roadline_dev_password"),
		DBName:      getEnv("DB_NAME", "roadline"),
		SSLMode:     getEnv("DB_SSLMODE", "disable"),
		MaxConns:    25,
		MinConns:    5,
		MaxIdleTime: 5 * time.Minute,
		MaxLifetime: 30 * time.Minute,
	}

	db, err := storage.NewDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateCfg := &storage.MigrateConfig{
		Host:     dbCfg.Host,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DBName:   dbCfg.DBName,
		SSLMode:  dbCfg.SSLMode,
	}
	if err := storage.RunMigrations(migrateCfg, "./migrations"); err != nil {
		log.Printf("Warning: Failed to run migrations: %v", err)
	}

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

	publishers := []notify.Publisher{notify.NewRedisPublisher(redisClient)}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		if natsConn, err := nats.Connect(natsURL); err != nil {
			log.Printf("Warning: Failed to connect to NATS: %v", err)
		} else {
			defer natsConn.Close()
			publishers = append(publishers, notify.NewNatsPublisher(natsConn))
		}
	}
	publisher := notify.NewMultiPublisher(publishers...)

	rebuildSource := rebuild.NewGitHubRebuildFunc(ghClient, ghCache, documents, publisher)

	// Periodic rebuild scheduler; sources are registered as they are
	// fetched for the first time through the API. This runs rebuilds
	// inline, in-process; cmd/scheduler and cmd/worker split the same
	// work across a NATS queue for deployments that need to scale
	// rebuild capacity independently of the API.
	scheduler := rebuild.NewScheduler(time.UTC, rebuildSource)
	scheduler.Start()
	defer scheduler.Stop()

	// Set Gin mode based on environment
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	roadlineHandler := handlers.NewRoadlineHandler(documents, ghClient, ghCache, publisher, scheduler)

	router.GET("/health", func(c *gin.Context) {
		dbHealthy := db.Health(c.Request.Context()) == nil
		redisHealthy := redisClient.Ping(c.Request.Context()).Err() == nil

		status := "healthy"
		services := map[string]string{"database": "healthy", "redis": "healthy"}
		if !dbHealthy {
			status = "degraded"
			services["database"] = "unhealthy"
		}
		if !redisHealthy {
			status = "degraded"
			services["redis"] = "unhealthy"
		}

		c.JSON(200, dto.HealthResponse{Status: status, Services: services})
	})

	jwtConfig := middleware.DefaultJWTConfig()

	api := router.Group("/api/v1")
	api.Use(middleware.OptionalAuth(jwtConfig))
	api.Use(middleware.GlobalRateLimiter.RateLimit())

	api.GET("/status", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": version})
	})

	roadlines := api.Group("/roadlines")
	{
		roadlines.POST("", roadlineHandler.Build)
		roadlines.POST("/fetch", roadlineHandler.Fetch)
	}

	docs := api.Group("/documents")
	{
		docs.GET("", roadlineHandler.ListDocuments)
		docs.POST("/rebuild", roadlineHandler.RebuildDocument)
		docs.GET("/*sourceKey", roadlineHandler.GetDocument)
		docs.DELETE("/*sourceKey", roadlineHandler.DeleteDocument)
	}

	api.GET("/tasks/:id/status", roadlineHandler.TaskStatus)

	log.Printf("Server listening on port %s in %s mode", port, env)
	if err := router.Run(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
