package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"story-wall/internal/comic"
	"story-wall/internal/config"
	"story-wall/internal/delivery/websocket"
	"story-wall/internal/dispatch"
	"story-wall/internal/generator"
	"story-wall/internal/handler"
	"story-wall/internal/messaging"
	"story-wall/internal/service"
	"story-wall/internal/storage"
	"story-wall/pkg/database"
	"story-wall/pkg/migration"
	"story-wall/pkg/taskmanager"
	sharedDB "story-wall/shared/database"
	"story-wall/shared/interfaces"
	sharedLogger "story-wall/shared/logger"
	sharedMiddleware "story-wall/shared/middleware"
	"story-wall/shared/models"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logCfg := cfg.LoggerConfig()
	logCfg.Service = "story-wall"
	logger, err := sharedLogger.New(logCfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("Starting story-wall server", zap.String("env", cfg.Env), zap.Int("turnThreshold", cfg.TurnThreshold))

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// --- Database ---
	db, err := database.New(rootCtx, cfg.DatabaseConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: sharedDB.MigrationsPath,
		MigrationsFS:   sharedDB.MigrationsFS,
	}, db.Pool, logger)
	if err := migrator.Up(rootCtx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// --- Redis ---
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(rootCtx, 5*time.Second)
	if _, err := redisClient.Ping(pingCtx).Result(); err != nil {
		pingCancel()
		logger.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	pingCancel()
	defer redisClient.Close()
	logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// --- RabbitMQ (optional) ---
	publisher, amqpConn := newPublisher(cfg.RabbitMQ, logger)
	if amqpConn != nil {
		defer amqpConn.Close()
	}
	defer publisher.Close()

	// --- Media storage ---
	media := storage.NewMedia(cfg.MediaRoot, logger)
	if err := media.EnsureLayout(); err != nil {
		logger.Fatal("Failed to prepare media directories", zap.String("root", cfg.MediaRoot), zap.Error(err))
	}

	// --- Repositories ---
	userRepo := sharedDB.NewPgUserRepository(db.Pool, logger)
	storyRepo := sharedDB.NewPgStoryRepository(db.Pool, logger)
	turnRepo := sharedDB.NewPgTurnRepository(db.Pool, logger)
	themeRepo := sharedDB.NewCachedThemeRepository(sharedDB.NewPgThemeRepository(db.Pool, logger), cfg.ThemeCacheTTL, logger)
	tokenRepo := sharedDB.NewRedisTokenRepository(redisClient, logger)

	// --- Generators ---
	textGen := generator.NewTextGenerator(cfg.TextGeneratorConfig(), logger)
	imageGen := generator.NewImageGenerator(cfg.ImageGeneratorConfig(), media, logger)

	// --- Compiler and dispatcher ---
	compiler := comic.NewCompiler(storyRepo, turnRepo, media, logger)
	mailer := dispatch.NewMailer(cfg.MailerConfig(), logger)
	dispatcher := dispatch.NewDispatcher(storyRepo, userRepo, media, mailer, logger)

	// --- Background tasks ---
	tm := taskmanager.New(taskmanager.Config{}, logger)
	tm.StartJanitor(rootCtx, 5*time.Minute, cfg.TaskRetention)
	imageTasks := service.NewImageTasks(tm, cfg.TaskRetention)

	// --- Services ---
	visitorService := service.NewVisitorService(userRepo, tokenRepo, cfg.TokenConfig(), logger)
	storyService := service.NewStoryService(themeRepo, storyRepo, turnRepo, textGen, imageGen, cfg.TurnThreshold, logger)
	completionService := service.NewCompletionService(storyRepo, compiler, dispatcher, publisher, tm, cfg.CompletionServiceConfig(), logger)
	turnService := service.NewTurnService(storyRepo, turnRepo, textGen, imageGen, media, tm, imageTasks, completionService, cfg.TurnThreshold, logger)
	statusService := service.NewStatusService(storyRepo, turnRepo, imageTasks, logger)

	// --- WebSocket push ---
	wsManager := websocket.NewManager(visitorService, cfg.AllowedOrigins(), logger)
	wsManager.Start(rootCtx)
	tm.SetWebSocketNotifier(wsManager)

	// --- Rate limiting ---
	rateLimitStore := rateli.RedisStore(&rateli.RedisOptions{
		RedisClient: redisClient,
		Rate:        time.Minute,
		Limit:       uint(cfg.GenerationLimit),
	})
	rateLimitMiddleware := rateli.RateLimiter(rateLimitStore, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			zap.L().Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    "RATE_LIMIT_EXCEEDED",
				Message: "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(sharedMiddleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS", "HEAD"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", sharedMiddleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{sharedMiddleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Serves /metrics from the default registry, which also holds the promauto metrics.
	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	healthHandler := func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/ws", gin.WrapH(wsManager))
	router.Static(handler.MediaPrefix, media.Root())

	apiHandler := handler.NewHandler(visitorService, storyService, turnService, statusService, cfg.TurnThreshold, logger)
	apiHandler.RegisterRoutes(router, rateLimitMiddleware)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := srv.Shutdown(httpCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Turn illustrations and pending completions must finish before the stores close.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer drainCancel()
	if err := tm.Shutdown(drainCtx); err != nil {
		logger.Error("Background tasks did not finish in time", zap.Error(err))
	}
	stopRoot()

	logger.Info("Server exiting")
}

func newPublisher(cfg config.RabbitMQConfig, logger *zap.Logger) (interfaces.StoryEventPublisher, *amqp.Connection) {
	if cfg.URL == "" {
		logger.Info("RABBITMQ_URL is empty, story events are not published")
		return messaging.NewNopPublisher(logger), nil
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		logger.Warn("Failed to connect to RabbitMQ, story events are not published", zap.Error(err))
		return messaging.NewNopPublisher(logger), nil
	}
	publisher, err := messaging.NewRabbitMQPublisher(conn, cfg.Exchange, logger)
	if err != nil {
		logger.Warn("Failed to declare RabbitMQ exchange, story events are not published", zap.Error(err))
		_ = conn.Close()
		return messaging.NewNopPublisher(logger), nil
	}
	logger.Info("Connected to RabbitMQ", zap.String("exchange", cfg.Exchange))
	return publisher, conn
}
