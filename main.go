package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"task-earn-system/handlers"
	"task-earn-system/middleware"
	"task-earn-system/models"
	"task-earn-system/services"
	"task-earn-system/utils"
	"task-earn-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // avatars only
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.TaskSubmission{},
		&models.UserProgress{},
		&models.PendingVerification{},
		&models.VerificationEvent{},
		&models.Referral{},
		&models.WithdrawalRequest{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	if utils.R2Configured() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		log.Println("✅ R2 avatar storage configured")
	} else {
		log.Println("⚠️  R2 not configured — avatars stored in local uploads dir")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Profile store selection: postgres (default) or redis ---
	var store services.ProfileStore
	var redisStore *services.RedisProfileStore
	if os.Getenv("PROFILE_STORE") == "redis" {
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			log.Fatal("PROFILE_STORE=redis but REDIS_ADDR not set")
		}
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis:", err)
		}
		redisStore = services.NewRedisProfileStore(client)
		store = redisStore
		log.Println("✅ Profile store: redis")
	} else {
		store = services.NewGormProfileStore(db)
		log.Println("✅ Profile store: postgres")
	}

	delaySeconds := 10
	if v := os.Getenv("VERIFY_DELAY_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			delaySeconds = n
		}
	}

	referralService := services.NewReferralService(db, store)
	profileService := services.NewProfileService(db, store)
	verificationService := services.NewVerificationService(
		db, store, referralService,
		services.FixedDelay{D: time.Duration(delaySeconds) * time.Second},
	)

	// When redis holds the profiles, mirror them into postgres for
	// reporting.
	if redisStore != nil {
		syncWorker := workers.NewProfileSyncWorker(db, redisStore)
		syncWorker.Start(ctx)
	}

	verificationService.StartPendingFinalizer()

	handlers.SetupTaskRoutes(app, verificationService)
	handlers.SetupProfileRoutes(app, profileService, referralService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Verification delay: %ds", delaySeconds)
	log.Println("✅ Pending verification finalizer running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
