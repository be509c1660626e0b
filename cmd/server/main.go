package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rhanierex/Gym-Management/internal/attendance"
	"github.com/rhanierex/Gym-Management/internal/handlers"
	"github.com/rhanierex/Gym-Management/internal/membership"
	authmw "github.com/rhanierex/Gym-Management/internal/middleware"
	"github.com/rhanierex/Gym-Management/internal/notifier"
	"github.com/rhanierex/Gym-Management/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis is optional; without it the dashboard and reports skip caching
	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			log.Printf("Warning: Redis initialization failed: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	} else {
		log.Println("REDIS_URL not set, response caching disabled")
	}

	// Telegram alerts are optional; registrations still succeed without them
	store := membership.NewGormStore(db)
	tg := services.NewTelegramService()
	var alerts membership.Alerter
	if tg.Configured() {
		alerts = notifier.New(membership.NewRegistry(store, nil), tg, tg.DefaultChatID(), membership.DefaultAlertWindow)
	} else {
		log.Println("Telegram not configured, new-member alerts disabled")
	}
	registry := membership.NewRegistry(store, alerts)

	tracker := attendance.NewTracker(attendance.NewGormStore(db), registry)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = authmw.CustomErrorHandler

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db)
	memberHandler := handlers.NewMemberHandler(registry, cache)
	attendanceHandler := handlers.NewAttendanceHandler(tracker, registry)
	reportHandler := handlers.NewReportHandler(registry, cache)
	dashboardHandler := handlers.NewDashboardHandler(registry, cache)

	// Public routes. The scan endpoint stays open so the kiosk scanner at
	// the door works without a session.
	e.POST("/auth/register-admin", authHandler.RegisterAdmin)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/scan", attendanceHandler.Scan)

	// Protected routes
	protected := e.Group("/api")
	protected.Use(authmw.RequireAuth())

	protected.GET("/auth/profile", authHandler.Profile)
	protected.PUT("/auth/profile", authHandler.UpdateProfile)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	protected.GET("/dashboard", dashboardHandler.Dashboard)

	protected.POST("/members", memberHandler.RegisterMember)
	protected.GET("/members", memberHandler.ListMembers)
	protected.GET("/members/new-id", memberHandler.NewMemberID)
	protected.GET("/members/:id", memberHandler.GetMember)
	protected.PUT("/members/:id", memberHandler.EditMember)
	protected.POST("/members/:id/renew", memberHandler.RenewMember)
	protected.DELETE("/members/:id", memberHandler.DeleteMember)
	protected.GET("/members/:id/qrcode", memberHandler.MemberQRCode)

	protected.GET("/attendance", attendanceHandler.ListAttendance)
	protected.GET("/attendance/summary", attendanceHandler.TodaySummary)
	protected.GET("/attendance/export", attendanceHandler.ExportAttendance)

	protected.GET("/reports/revenue", reportHandler.RevenueReport)
	protected.GET("/reports/revenue/export", reportHandler.ExportRevenue)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
