package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ambassador-program/internal/auth"
	"ambassador-program/internal/config"
	"ambassador-program/internal/database"
	"ambassador-program/internal/handlers"
	"ambassador-program/internal/jobs"
	"ambassador-program/internal/middleware"
	"ambassador-program/internal/realtime"
	"ambassador-program/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and seed reference data
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	// Realtime notifications are best-effort: a missing Redis only
	// disables dashboard push, everything else keeps working.
	var notifier *realtime.Notifier
	if redisClient, err := realtime.Connect(cfg.Redis.URL); err != nil {
		log.Printf("Redis unavailable, realtime notifications disabled: %v", err)
	} else {
		notifier = realtime.NewNotifier(redisClient)
	}

	db := database.GetDB()

	// Initialize services
	referralService := services.NewReferralService(db, notifier, cfg.Program.EligibilityDays)
	payoutService := services.NewPayoutService(db, notifier, cfg.Program.WithholdingPercent)
	achievementService := services.NewAchievementService(db, notifier)
	leaderboardService := services.NewLeaderboardService(db, cfg.Program.LeaderboardTieBreak)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg.App.AdminEmails)
	ambassadorHandler := handlers.NewAmbassadorHandler(db, referralService)
	referralHandler := handlers.NewReferralHandler(referralService, payoutService)
	clickHandler := handlers.NewClickHandler(db)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, cfg.Program.LeaderboardSize)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	adminHandler := handlers.NewAdminHandler(db, referralService, payoutService)

	// Start monthly payout aggregation (checked daily)
	payoutJob := jobs.NewPayoutJob(payoutService)
	payoutJob.Start(24 * time.Hour)
	defer payoutJob.Stop()
	log.Println("Payout aggregation job started")

	if cfg.App.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/enroll", authHandler.Enroll)
		authRoutes.POST("/token", authHandler.Token)
	}

	// Public routes
	router.GET("/r/:code/click", clickHandler.Track)
	router.GET("/api/leaderboard", leaderboardHandler.GetLeaderboard)
	router.GET("/api/tiers", ambassadorHandler.GetTiers)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Ambassador endpoints
		me := api.Group("/me")
		{
			me.GET("/profile", ambassadorHandler.GetProfile)
			me.GET("/dashboard", ambassadorHandler.GetDashboard)
			me.GET("/tier-progress", ambassadorHandler.GetTierProgress)
			me.GET("/referrals", referralHandler.GetReferrals)
			me.GET("/payouts", referralHandler.GetPayouts)
			me.GET("/clicks/daily", clickHandler.GetDailySeries)
			me.GET("/clicks/breakdown", clickHandler.GetBreakdown)
			me.GET("/achievements", achievementHandler.GetAchievements)
			me.GET("/achievements/unnotified", achievementHandler.GetUnnotified)
			me.POST("/achievements/notified", achievementHandler.MarkNotified)
		}
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.AdminMiddleware())
	{
		admin.POST("/sales", adminHandler.RecordSale)
		admin.POST("/referrals/:id/confirm", adminHandler.ConfirmReferral)
		admin.POST("/referrals/:id/cancel", adminHandler.CancelReferral)

		admin.POST("/payouts/aggregate", adminHandler.AggregatePayouts)
		admin.GET("/payouts", adminHandler.ListPayouts)
		admin.POST("/payouts/:id/paid", adminHandler.MarkPayoutPaid)
		admin.POST("/payouts/:id/cancel", adminHandler.CancelPayout)

		admin.POST("/tiers", adminHandler.CreateTier)
		admin.PUT("/tiers/:id", adminHandler.UpdateTier)

		admin.GET("/ambassadors", adminHandler.ListAmbassadors)
		admin.POST("/ambassadors/:id/deactivate", adminHandler.DeactivateAmbassador)
		admin.POST("/ambassadors/:id/reactivate", adminHandler.ReactivateAmbassador)

		admin.GET("/stats", adminHandler.GetProgramStats)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
