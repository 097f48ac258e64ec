package main

import (
	"context"
	"faceboobs/server/database"
	"faceboobs/server/internal/bot"
	"faceboobs/server/internal/handlers"
	"faceboobs/server/internal/services"
	"faceboobs/server/internal/tests"
	"faceboobs/shared/config"
	"faceboobs/shared/env"
	"faceboobs/shared/logger"
	"faceboobs/shared/notifications"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func startHeartbeat(appLogger *logger.Logger) {
	go func() {
		ticker := time.NewTicker(8 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			appLogger.Info("Heartbeat: Program running...")
		}
	}()
}

func resolveDSN(appLogger *logger.Logger) string {
	if env.DATABASE_URL != "" {
		appLogger.Info("Using DATABASE_URL for database connection.")
		return env.DATABASE_URL
	}

	appLogger.Warn("DATABASE_URL not set. Attempting to construct DSN from PG* or LOCAL_* variables.")
	dbHost := env.PGHOST
	dbPort := env.PGPORT
	dbUser := env.PGUSER
	dbPassword := env.PGPASSWORD
	dbName := env.PGDATABASE

	if dbHost == "" && env.LOCAL_DATABASE_HOST != "" {
		appLogger.Info("Falling back to LOCAL_DATABASE_HOST")
		dbHost = env.LOCAL_DATABASE_HOST
	}
	if dbPort == "" && env.LOCAL_DATABASE_PORT != "" {
		appLogger.Info("Falling back to LOCAL_DATABASE_PORT")
		dbPort = env.LOCAL_DATABASE_PORT
	}
	if dbUser == "" && env.LOCAL_DATABASE_USER != "" {
		appLogger.Info("Falling back to LOCAL_DATABASE_USER")
		dbUser = env.LOCAL_DATABASE_USER
	}
	if dbPassword == "" && env.LOCAL_DATABASE_PASSWORD != "" {
		appLogger.Info("Falling back to LOCAL_DATABASE_PASSWORD (value hidden)")
		dbPassword = env.LOCAL_DATABASE_PASSWORD
	}
	if dbName == "" && env.LOCAL_DATABASE_NAME != "" {
		appLogger.Info("Falling back to LOCAL_DATABASE_NAME")
		dbName = env.LOCAL_DATABASE_NAME
	}

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		appLogger.Fatal("Essential database connection variables are missing (DATABASE_URL, PG*, LOCAL_*)")
	}

	appLogger.Info("Constructed Database DSN using individual variables (password hidden)")
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbHost, dbUser, dbPassword, dbName, dbPort,
	)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Panicf("FATAL PANIC RECOVERY: %v", r)
		}
	}()

	if err := env.LoadEnv(); err != nil {
		log.Fatalf("FATAL: Failed to load environment variables: %v", err)
	}
	log.Println("INFO: Environment variables loaded via shared/env.")

	log.Println("INFO: Initializing application logger.")
	enableTelegramLogging := env.TelegramBotToken != "" && env.TelegramGroupID != 0
	appLogger, err := logger.NewLogger(logger.Config{
		Level:          "info",
		Environment:    "production",
		EnableTelegram: enableTelegramLogging,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	appLogger.Info("Application logger initialized successfully.")

	appLogger.Info("Initializing EVM chain service...")
	var chainSvc *services.EVMService
	if env.EVMRPCURL == "" {
		appLogger.Warn("EVM_RPC_URL not set. Paid content and purchases will be unavailable.")
	} else {
		chainSvc, err = services.NewEVMService(appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize EVM chain service", "error", err.Error())
		}
		appLogger.Info("EVM chain service initialized successfully.")
	}

	dsn := resolveDSN(appLogger)

	appLogger.Info("Connecting to database...")
	db, errDb := database.ConnectToDatabase(dsn)
	if errDb != nil {
		appLogger.Fatal("Database connection failed", "error", errDb.Error())
	}
	appLogger.Info("Database connection established successfully.")

	appLogger.Info("Running database migrations...")
	if err := database.MigrateDatabase(db, dsn); err != nil {
		appLogger.Fatal("Database migration failed", "error", err.Error())
	}
	appLogger.Info("Database migrations completed.")

	log.Println("INFO: Initializing Telegram notifications...")
	opsAlerts := false
	if err := notifications.InitTelegramBot(); err != nil {
		log.Printf("WARN: Failed to initialize Telegram Bot, proceeding without Telegram features: %v", err)
	} else {
		opsAlerts = notifications.GetBotInstance() != nil
		log.Println("INFO: Telegram notifications initialized (if enabled and configured).")
	}

	appLogger.Info("Loading application configuration...")
	cfg, errCfg := config.LoadConfig("server/config.yaml")
	if errCfg != nil {
		appLogger.Fatal("Failed to load server/config.yaml", "error", errCfg.Error())
	}
	config.SetGlobalConfig(cfg)
	appLogger.Info("Application configuration loaded.")

	appLogger.Info("Wiring domain services...")
	store := database.NewStore(db)
	hub := services.NewHub()

	notifySvc := services.NewNotificationService(store, store, hub, appLogger)
	userSvc := services.NewUserService(store, appLogger)
	followSvc := services.NewFollowService(store, notifySvc, appLogger)
	likeSvc := services.NewLikeService(store, store, notifySvc, appLogger)
	commentSvc := services.NewCommentService(store, store, store, notifySvc, appLogger)
	storySvc := services.NewStoryService(store, appLogger)
	messageSvc := services.NewMessageService(store, notifySvc, hub, appLogger)
	mediaSvc := services.NewMediaService(store, int(cfg.Media.MaxInlineBytes), appLogger)

	var registrar services.ContentRegistrar
	var purchaser services.ContractPurchaser
	if chainSvc != nil {
		registrar = chainSvc
		purchaser = chainSvc
	}
	postSvc := services.NewPostService(store, store, store, registrar, appLogger)
	purchaseSvc := services.NewPurchaseService(purchaser, store, store, notifySvc, appLogger, opsAlerts)
	appLogger.Info("Domain services wired.")

	appLogger.Info("Initializing Telegram Bot command listener...")
	if err := bot.InitializeBot(appLogger, store); err != nil {
		appLogger.Error("Failed to initialize Telegram Bot listener", "error", err.Error())
	} else {
		appLogger.Info("Telegram Bot command listener initialized.")
	}

	appLogger.Info("Setting up web server...")
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Wallet-Address"}
	router.Use(cors.New(corsConfig))
	appLogger.Info("CORS middleware configured.")

	api := &handlers.API{
		Users:         userSvc,
		Follows:       followSvc,
		Posts:         postSvc,
		Likes:         likeSvc,
		Comments:      commentSvc,
		Purchases:     purchaseSvc,
		Stories:       storySvc,
		Messages:      messageSvc,
		Notifications: notifySvc,
		Media:         mediaSvc,
		Chain:         chainSvc,
		Hub:           hub,
		Logger:        appLogger,
	}
	handlers.RegisterRoutes(router, appLogger)
	api.RegisterAPIRoutes(router)
	appLogger.Info("Web server and API routes registered.")

	go func() {
		serverAddr := ":" + env.Port
		appLogger.Info("Starting web server", "address", serverAddr)
		if err := router.Run(serverAddr); err != nil {
			appLogger.Fatal("Could not start web server.", "error", err.Error())
		}
	}()

	appLogger.Info("Running startup tests...")
	go tests.RunStartupTests()

	appLogger.Info("Starting heartbeat monitor.")
	startHeartbeat(appLogger)

	if notifications.GetBotInstance() != nil {
		appLogger.Info("Starting Telegram Bot message listener...")
		go bot.StartListening(context.Background())
	} else {
		appLogger.Warn("Telegram Bot listener not started because bot initialization failed or was skipped.")
	}

	appLogger.Info("Application startup complete. Waiting for events...")
	select {}
}
