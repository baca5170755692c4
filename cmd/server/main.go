package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/tsukinami/ctf-platform-api/internal/config"
	"github.com/tsukinami/ctf-platform-api/internal/constants"
	"github.com/tsukinami/ctf-platform-api/internal/database"
	"github.com/tsukinami/ctf-platform-api/internal/handlers"
	"github.com/tsukinami/ctf-platform-api/internal/middleware"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"github.com/tsukinami/ctf-platform-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		log.Fatalf("Failed to apply indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	accountService := services.NewAccountService(userRepo, gameRepo)
	gameService := services.NewGameService(gameRepo, submissionRepo)
	challengeService := services.NewChallengeService(challengeRepo, gameRepo, submissionRepo)
	submissionService := services.NewSubmissionService(submissionRepo, challengeRepo)
	inviteService := services.NewInviteService(inviteRepo, gameRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	gameHandler := handlers.NewGameHandler(gameService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	inviteHandler := handlers.NewInviteHandler(inviteService, cfg.BaseURL)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "CTF Platform API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Account routes; the availability check is public so signup flows
		// can validate a username before login
		account := api.Group("/account")
		{
			account.GET("/username/check", accountHandler.CheckUsername)
			account.PUT("/username", middleware.RequireAuth(), accountHandler.SetUsername)
			account.GET("/stats", middleware.RequireAuth(), accountHandler.GetStats)
		}

		// Game routes; listing, detail, leaderboard and ended checks are
		// public so games can be browsed logged out. Mutation routes
		// additionally require a username so leaderboards never show
		// anonymous entries.
		games := api.Group("/games")
		{
			games.GET("", gameHandler.ListGames)
			games.GET("/:id", gameHandler.GetGame)
			games.GET("/:id/ended", gameHandler.IsEnded)
			games.GET("/:id/leaderboard", gameHandler.GetLeaderboard)

			authedGames := games.Group("", middleware.RequireAuth())
			{
				authedGames.POST("", middleware.RequireUsername(), gameHandler.CreateGame)
				authedGames.PATCH("/:id", middleware.RequireUsername(), middleware.RequireGameAdmin(), gameHandler.UpdateGame)
				authedGames.POST("/:id/join", middleware.RequireUsername(), gameHandler.JoinGame)

				authedGames.POST("/:id/challenges", middleware.RequireUsername(), middleware.RequireGameAdmin(), challengeHandler.CreateChallenge)
				authedGames.GET("/:id/challenges", challengeHandler.ListChallenges)

				authedGames.GET("/:id/submissions", submissionHandler.ListMyGameSubmissions)

				authedGames.POST("/:id/invites", middleware.RequireUsername(), middleware.RequireGameAdmin(), inviteHandler.CreateUserInvite)
				authedGames.POST("/:id/invites/bulk", middleware.RequireUsername(), middleware.RequireGameAdmin(), inviteHandler.BulkUserInvite)
				authedGames.GET("/:id/invites", middleware.RequireUsername(), middleware.RequireGameAdmin(), inviteHandler.GetGameInvites)
				authedGames.POST("/:id/invite-links", middleware.RequireUsername(), middleware.RequireGameAdmin(), inviteHandler.CreateInviteLink)
				authedGames.DELETE("/:id/invite-links/:linkId", middleware.RequireUsername(), middleware.RequireGameAdmin(), inviteHandler.CancelInviteLink)
			}
		}

		// Challenge routes (protected)
		challenges := api.Group("/challenges")
		challenges.Use(middleware.RequireAuth())
		{
			challenges.GET("/:id/flag", challengeHandler.GetFlag)
			challenges.POST("/:id/submit", middleware.RequireUsername(), submissionHandler.Submit)
			challenges.GET("/:id/submission", submissionHandler.GetMyChallengeSubmission)
		}

		// Invite routes (protected)
		invites := api.Group("/invites")
		invites.Use(middleware.RequireAuth())
		{
			invites.GET("", inviteHandler.GetMyInvites)
			invites.POST("/:id/accept", middleware.RequireUsername(), inviteHandler.AcceptUserInvite)
			invites.POST("/:id/decline", middleware.RequireUsername(), inviteHandler.DeclineUserInvite)
			invites.DELETE("/:id", middleware.RequireUsername(), inviteHandler.CancelUserInvite)
		}

		// Invite link routes; code resolution is public so the landing page
		// can preview the game before login
		inviteLinks := api.Group("/invite-links")
		{
			inviteLinks.GET("/:code", inviteHandler.GetInviteLink)
			inviteLinks.POST("/:code/accept", middleware.RequireAuth(), middleware.RequireUsername(), inviteHandler.AcceptInviteLink)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
