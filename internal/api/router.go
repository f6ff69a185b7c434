package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/hoops-sim/internal/api/handlers"
	"github.com/stitts-dev/hoops-sim/internal/api/middleware"
	"github.com/stitts-dev/hoops-sim/internal/services"
	"github.com/stitts-dev/hoops-sim/pkg/config"
)

// NewRouter builds the gin engine with middleware and every route under /api/v1.
func NewRouter(cfg *config.Config, resources *services.Resources, store services.SessionStore, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	apiV1 := router.Group("/api/v1")
	SetupRoutes(apiV1, cfg, resources, store, logger)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, cfg *config.Config, resources *services.Resources, store services.SessionStore, logger *logrus.Logger) {
	gameService := services.NewGameService(resources, store, logger)
	playerService := services.NewPlayerService(resources.Catalogs)

	healthHandler := handlers.NewHealthHandler(resources, store)
	difficultyHandler := handlers.NewDifficultyHandler(resources.Difficulties, resources.DefaultDifficulty().Name)
	playerHandler := handlers.NewPlayerHandler(playerService)
	sessionHandler := handlers.NewSessionHandler(gameService)
	simulateHandler := handlers.NewSimulateHandler(gameService)

	group.GET("/health", healthHandler.GetHealth)
	group.GET("/ready", healthHandler.GetReady)

	group.GET("/difficulties", difficultyHandler.ListDifficulties)

	// Player endpoints
	group.GET("/players/search", playerHandler.SearchPlayers)
	group.GET("/players/:name", playerHandler.GetPlayer)
	group.POST("/players/lookup", playerHandler.LookupPlayers)

	// Plays are the expensive calls, so only they are rate limited
	limiter := middleware.NewClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limited := group.Group("")
	limited.Use(limiter.Middleware())
	{
		limited.POST("/sessions/:id/play", sessionHandler.Play)
		limited.POST("/simulate", simulateHandler.Simulate)
	}

	// Session endpoints
	group.POST("/sessions", sessionHandler.CreateSession)
	group.GET("/sessions/:id", sessionHandler.GetSession)
	group.DELETE("/sessions/:id", sessionHandler.DeleteSession)
	group.POST("/sessions/:id/home/players", sessionHandler.AddHomePlayer)
	group.DELETE("/sessions/:id/home/players/:name", sessionHandler.RemoveHomePlayer)
	group.PUT("/sessions/:id/difficulty", sessionHandler.SetDifficulty)
	group.POST("/sessions/:id/new-team", sessionHandler.NewTeam)
}
