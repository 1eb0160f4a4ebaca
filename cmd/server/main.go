package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/api/handlers"
	"github.com/maheshrc27/postpilot/internal/api/middleware"
	"github.com/maheshrc27/postpilot/internal/database"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := database.Open(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	version, _, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database schema at version %d", version)

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return handlers.ErrorHandler(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewScheduledPostRepository(db)
	pageRepo := repository.NewFacebookPageRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	settingsRepository := repository.NewSettingsRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)
	attemptRepo := repository.NewPublishAttemptRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)
	settingsService := service.NewSettingsService(*cfg, settingsRepository)
	pageService := service.NewPageService(*cfg, pageRepo)
	postService := service.NewPostService(postRepo, pageService)
	r2Service := service.NewR2Service(*cfg)
	mediaService := service.NewMediaService(settingsService, mediaAssetRepo, r2Service)
	facebookService := service.NewFacebookService(*cfg)
	captionService, err := service.NewCaptionService(settingsService, service.NewGeminiModel(*cfg))
	if err != nil {
		log.Fatalf("Failed to load caption templates: %v", err)
	}

	dispatcher := queue.NewDispatcher(postRepo, attemptRepo, pageService, facebookService)
	dispatchJob := job.NewDispatchJob(dispatcher, job.NewRedisLocker(rdb, cfg.Dispatch.LockTTL))

	scheduler := job.NewScheduler(cfg.Dispatch.Interval, func() {
		err := queue.EnqueueDispatchPass(client, queue.DispatchPassPayload{Trigger: "scheduler"}, cfg.Dispatch.Interval)
		if err != nil {
			log.Printf("Unable to enqueue dispatch pass: %v", err)
		}
	})

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "database unreachable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	cronHandler := handlers.NewCronHandler(dispatchJob, dispatcher, scheduler)
	cronGroup := app.Group("/cron", middleware.CronSecret(cfg.CronSecret))
	cronGroup.Post("/process-scheduled-posts", cronHandler.ProcessScheduledPosts)
	cronGroup.Get("/process-scheduled-posts", cronHandler.PreviewScheduledPosts)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Delete("/user", user.DeleteUser)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings", settings.GetSettingsInfo)
	api.Put("/settings", settings.UpdateSettings)

	pages := handlers.NewPageHandler(pageService)
	api.Get("/facebook-pages", pages.ListPages)
	api.Post("/facebook-pages/sync", pages.SyncPages)
	api.Delete("/facebook-pages", pages.RemovePage)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.UploadMedia)
	api.Delete("/media", media.DeleteMedia)

	generate := handlers.NewGenerateHandler(captionService)
	api.Post("/generate/captions", generate.GenerateCaptions)
	api.Post("/generate/prompts", generate.GeneratePrompts)

	post := handlers.NewPostHandler(postService)
	api.Post("/scheduled-posts", post.CreatePost)
	api.Get("/scheduled-posts", post.ListPosts)
	api.Put("/scheduled-posts", post.UpdatePost)
	api.Delete("/scheduled-posts", post.RemovePost)
	api.Post("/scheduled-posts/bulk", post.BulkAction)

	facebook := handlers.NewFacebookHandler(facebookService, pageService)
	api.Post("/facebook-post", facebook.Post)
	api.Post("/facebook-reel", facebook.Reel)
	api.Post("/facebook-comment", facebook.Comment)

	api.Post("/scheduler/start", cronHandler.StartScheduler)
	api.Post("/scheduler/stop", cronHandler.StopScheduler)
	api.Get("/scheduler/status", cronHandler.SchedulerStatus)

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 1,
	})
	mux := asynq.NewServeMux()
	queue.NewWorker(dispatchJob).Register(mux)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	if err := scheduler.Start(); err != nil {
		log.Fatalf("Could not start scheduler: %v", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, db, scheduler, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, scheduler *job.Scheduler, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	server.Shutdown()
	closeDB(db)
	log.Println("Server shutdown complete.")
}
