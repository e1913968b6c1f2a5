package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/akazachkov/blog-platform/internal/handlers"
	"github.com/akazachkov/blog-platform/internal/jwt"
	"github.com/akazachkov/blog-platform/internal/logger"
	"github.com/akazachkov/blog-platform/internal/middlewares"
	"github.com/akazachkov/blog-platform/internal/repositories"
	"github.com/akazachkov/blog-platform/internal/services"

	_ "github.com/akazachkov/blog-platform/docs"
	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title blog-platform API
// @version 1.0.0
// @description REST API for a blog platform: authentication and post CRUD
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, categoryCacheTTL,
		kafkaBroker, kafkaTopic, logLevel,
		jwtSecret, jwtExp,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		appHost, appPort,
		pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		redisHost, redisPort, redisDB, redisPassword,
		redisPoolSize, redisMinIdleConns, categoryCacheTTL,
		kafkaBroker, kafkaTopic,
		logLevel,
		jwtSecret, jwtExp,
	); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// all application, database, Redis, Kafka, logging, and JWT configuration.
func parseConfig(path string) (
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort int, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, categoryCacheTTL int,
	kafkaBroker, kafkaTopic, logLevel string,
	jwtSecretKey string, jwtExpSecond int,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	appHost = getEnv("APP_HOST", "localhost")
	appPort = getEnv("APP_PORT", "8080")
	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	pgHost = getEnv("POSTGRES_HOST", "localhost")
	pgUser = getEnv("POSTGRES_USER", "user")
	pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	pgDB = getEnv("POSTGRES_DB", "blog")
	if pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")
	if redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}
	if categoryCacheTTL, err = strconv.Atoi(getEnv("CATEGORY_CACHE_TTL_SECOND", "300")); err != nil {
		return
	}

	// Kafka config; an empty broker disables event publishing
	kafkaBroker = getEnv("KAFKA_BROKER", "")
	kafkaTopic = getEnv("KAFKA_TOPIC", "post-events")

	// JWT config
	jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "86400")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka writer, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context,
	appHost, appPort string,
	pgHost string, pgPort int, pgUser, pgPassword, pgDB string,
	pgMaxOpenConns, pgMaxIdleConns int,
	redisHost string, redisPort, redisDB int, redisPassword string,
	redisPoolSize, redisMinIdleConns, categoryCacheTTL int,
	kafkaBroker, kafkaTopic, logLevel string,
	jwtSecretKey string, jwtExpSecond int,
) error {
	// Initialize logger
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", pgHost, pgPort)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Errorw("PostgreSQL ping failed", "error", err)
		return err
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password:     redisPassword,
		DB:           redisDB,
		PoolSize:     redisPoolSize,
		MinIdleConns: redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Errorw("Redis connection error", "error", err)
		return err
	}
	defer rdb.Close()

	// Kafka writer for post events, optional
	var kafkaWriter services.KafkaWriter
	if kafkaBroker != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(kafkaBroker),
			Topic:    kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize token service
	tokens := jwt.New(
		jwt.WithSecretKey(jwtSecretKey),
		jwt.WithExpiration(time.Duration(jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	postReadRepo := repositories.NewPostReadRepository(db, middlewares.GetTxFromContext)
	postWriteRepo := repositories.NewPostWriteRepository(db, middlewares.GetTxFromContext)
	categoryRepo := repositories.NewCategoryReadRepository(db)
	categoryCache := repositories.NewCategoryCacheRepository(rdb, time.Duration(categoryCacheTTL)*time.Second)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens)
	postService := services.NewPostService(postReadRepo, postWriteRepo, categoryRepo, categoryCache, kafkaWriter)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	profileHandler := handlers.NewProfileHandler()
	listPostsHandler := handlers.NewListPostsHandler(postService)
	getPostHandler := handlers.NewGetPostHandler(postService)
	createPostHandler := handlers.NewCreatePostHandler(postService)
	updatePostHandler := handlers.NewUpdatePostHandler(postService)
	deletePostHandler := handlers.NewDeletePostHandler(postService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authMiddleware := middlewares.AuthMiddleware(tokens, userReadRepo)
	txMiddleware := middlewares.TxMiddleware(db)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", registerHandler)
		r.Post("/login", loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/profile", profileHandler)
		})
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", listPostsHandler)
		r.Get("/{id}", getPostHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(txMiddleware)
			r.Post("/", createPostHandler)
			r.Put("/{id}", updatePostHandler)
			r.Delete("/{id}", deletePostHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", appHost, appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", appHost, appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", appHost, appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
