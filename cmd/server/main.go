package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fuelbuddy/fuelbuddy-api/internal/config"
	"github.com/fuelbuddy/fuelbuddy-api/internal/database"
	"github.com/fuelbuddy/fuelbuddy-api/internal/handlers"
	"github.com/fuelbuddy/fuelbuddy-api/internal/logging"
	"github.com/fuelbuddy/fuelbuddy-api/internal/middleware"
	"github.com/fuelbuddy/fuelbuddy-api/internal/repository"
	"github.com/fuelbuddy/fuelbuddy-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(cfg.GinMode)
	log := logging.L()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// Token verification against the external identity provider
	verifier, err := services.NewJWTVerifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure token verification")
	}

	// Initialize repositories and handlers
	taskRepo := repository.NewTaskRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())
	taskHandler := handlers.NewTaskHandler(taskRepo)
	userHandler := handlers.NewUserHandler(userRepo)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// User routes (public: registration happens right after the
		// identity provider issues the account)
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/email/:email", userHandler.GetUserByEmail)
			users.GET("/:id", userHandler.GetUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(verifier))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("server starting")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
