package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/contest-api/internal/config"
	"github.com/yourusername/contest-api/internal/handler"
	"github.com/yourusername/contest-api/internal/middleware"
	pgRepo "github.com/yourusername/contest-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/contest-api/internal/repository/redis"
	"github.com/yourusername/contest-api/internal/service"
	ws "github.com/yourusername/contest-api/internal/websocket"
	"github.com/yourusername/contest-api/pkg/auth"
	"github.com/yourusername/contest-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	contestRepo := pgRepo.NewContestRepo(db)
	entryRepo := pgRepo.NewEntryRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// WebSocket hub for leaderboard push events
	hub := ws.NewHub()
	go hub.Run()

	// Services
	contestService := service.NewContestService(contestRepo)
	submissionService := service.NewSubmissionService(contestRepo, entryRepo, cacheRepo, service.SystemClock(), hub)
	rankService := service.NewRankService(contestRepo, entryRepo, cacheRepo, db, hub)
	leaderboardService := service.NewLeaderboardService(contestRepo, entryRepo, userRepo, cacheRepo)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWT service: %v", err)
		os.Exit(1)
	}

	// Handlers and middleware
	contestHandler := handler.NewContestHandler(contestService, submissionService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, rankService)
	userHandler := handler.NewUserHandler(leaderboardService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.Default()

	if gin.Mode() == gin.ReleaseMode {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		contests := api.Group("/contests")
		{
			contests.GET("", authMiddleware.OptionalAuth(), contestHandler.ListContests)

			adminCreate := contests.Group("")
			adminCreate.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminCreate.POST("", contestHandler.CreateContest)
			}

			contestWithID := contests.Group("/:id")
			contestWithID.Use(middleware.ExtractUintParam("id", "contestID"))
			{
				contestWithID.GET("", authMiddleware.OptionalAuth(), contestHandler.GetContest)
				contestWithID.GET("/leaderboard", leaderboardHandler.GetContestLeaderboard)
				contestWithID.GET("/ranking/:userId",
					middleware.ExtractUintParam("userId", "rankingUserID"),
					leaderboardHandler.GetUserRanking)

				authed := contestWithID.Group("")
				authed.Use(authMiddleware.RequireAuth())
				{
					authed.POST("/submit", contestHandler.Submit)
				}

				admin := contestWithID.Group("")
				admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
				{
					admin.GET("/leaderboard/export", leaderboardHandler.ExportLeaderboard)
				}
			}
		}

		leaderboard := api.Group("/leaderboard")
		{
			leaderboard.GET("/global", leaderboardHandler.GetGlobalLeaderboard)

			adminLeaderboard := leaderboard.Group("")
			adminLeaderboard.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminLeaderboard.POST("/recompute-ranks", leaderboardHandler.RecomputeRanks)
			}
		}

		users := api.Group("/users/me")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/contests", userHandler.GetMyContests)
			users.GET("/contests/in-progress", userHandler.GetInProgress)
			users.GET("/prizes", userHandler.GetPrizes)
		}
	}

	// WebSocket leaderboard stream
	router.GET("/ws/leaderboard", authMiddleware.OptionalAuth(), hub.HandleConnection)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	hub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
