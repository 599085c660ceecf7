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

	"match-journal/handlers"
	"match-journal/models"
	"match-journal/services"
	"match-journal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
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
		&models.User{},
		&models.AccessToken{},
		&models.Task{},
		&models.Match{},
		&models.MatchRating{},
		&models.DailyTaskAssignment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// One timezone policy for every calendar-day computation: the match
	// list date filter, the summary window and day bucketing all use this
	// location.
	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Asia/Tokyo"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatal("invalid TIMEZONE:", err)
	}

	authService := services.NewAuthService(db)
	if ttl := os.Getenv("TOKEN_TTL_HOURS"); ttl != "" {
		hours, err := strconv.Atoi(ttl)
		if err != nil || hours <= 0 {
			log.Fatal("invalid TOKEN_TTL_HOURS:", ttl)
		}
		authService.TokenTTL = time.Duration(hours) * time.Hour
	}
	taskService := services.NewTaskService(db)
	matchService := services.NewMatchService(db, loc)
	summaryService := services.NewSummaryService(db, loc)
	assignmentService := services.NewAssignmentService(db, loc)
	exportService := services.NewExportService(db)

	if utils.StorageConfigured() {
		if err := utils.InitStorage(); err != nil {
			log.Fatal("failed to initialize object storage:", err)
		}
		exportService.Upload = utils.UploadToBucket
		log.Println("✅ Object storage configured — /exports enabled")
	} else {
		log.Println("⚠️  Object storage not configured — /exports disabled")
	}

	authService.StartTokenCleanupScheduler()

	handlers.SetupAuthRoutes(app, db, authService)
	handlers.SetupTaskRoutes(app, db, taskService)
	handlers.SetupMatchRoutes(app, db, matchService, summaryService)
	handlers.SetupAssignmentRoutes(app, db, assignmentService)
	handlers.SetupExportRoutes(app, db, exportService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Calendar days computed in %s", loc)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
