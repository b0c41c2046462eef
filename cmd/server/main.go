package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/Sakilalakmal/nexus-app/internal/cache"
	"github.com/Sakilalakmal/nexus-app/internal/handlers"
	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/middleware"
	"github.com/Sakilalakmal/nexus-app/internal/repository"
	"github.com/Sakilalakmal/nexus-app/internal/service"
	"github.com/Sakilalakmal/nexus-app/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Nexus Backend",
		// Attachment uploads up to 10MB + multipart overhead.
		BodyLimit: 12 * 1024 * 1024,
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-NX-CSRF, X-Workspace-ID, X-Supports-Gzip",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	messageCache := cache.NewMessageCache(redisCache)
	presenceCache := cache.NewPresenceCache(redisCache)

	// Initialize repositories
	workspaceRepo := repository.NewWorkspaceRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// Initialize services
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	channelService := service.NewChannelService(channelRepo)
	messageService := service.NewMessageService(messageRepo, channelRepo, reactionRepo)
	summaryService := service.NewSummaryService(messageRepo, service.LoadLLMConfigFromEnv())

	// Initialize S3/MinIO storage (best-effort; feature endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	attachmentService := service.NewAttachmentService(s3Store)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(presenceCache)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, wsHandler.GetHub(), presenceCache)
	channelHandler := handlers.NewChannelHandler(channelService)
	messageHandler := handlers.NewMessageHandler(messageService, messageCache, wsHandler.GetHub())
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService)
	mediaHandler := handlers.NewMediaHandler(s3Store)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	api.Get("/auth/csrf", handlers.CSRFToken)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())
	protected.Post("/workspaces", workspaceHandler.CreateWorkspace)
	protected.Get("/workspaces", workspaceHandler.ListWorkspaces)
	protected.Get("/workspaces/:id", workspaceHandler.GetWorkspace)
	protected.Get("/media/*", mediaHandler.GetMedia)

	// Workspace-scoped routes resolve the workspace from the X-Workspace-ID
	// header and reject non-members before any handler runs.
	scoped := protected.Group("/", middleware.WorkspaceRequired(workspaceRepo))
	scoped.Post("/members", workspaceHandler.InviteMember)
	scoped.Get("/members", workspaceHandler.ListMembers)
	scoped.Delete("/members/:userId", workspaceHandler.RemoveMember)

	scoped.Post("/channels", channelHandler.CreateChannel)
	scoped.Get("/channels", channelHandler.ListChannels)
	scoped.Get("/channels/:id", channelHandler.GetChannel)

	scoped.Post("/messages", messageHandler.SendMessage)
	scoped.Get("/messages", messageHandler.GetMessages)
	scoped.Patch("/messages/:id", messageHandler.UpdateMessage)
	scoped.Post("/messages/:id/reactions", messageHandler.ToggleReaction)
	scoped.Get("/messages/:id/thread", messageHandler.GetThread)

	scoped.Post(
		"/attachments",
		limiter.New(limiter.Config{
			Max:        30,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalString(c, "userID"); err == nil {
					return "attachment:" + uid
				}
				return c.IP()
			},
		}),
		attachmentHandler.UploadAttachment,
	)

	scoped.Get(
		"/ai/threads/summary",
		limiter.New(limiter.Config{
			Max:        10,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalString(c, "userID"); err == nil {
					return "summary:" + uid
				}
				return c.IP()
			},
		}),
		summaryHandler.GetThreadSummary,
	)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"message":     "Nexus backend is running",
			"connections": wsHandler.GetHub().Count(),
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
