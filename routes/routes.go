package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/harjunatn/fun-soccer/handlers"
	"github.com/harjunatn/fun-soccer/logger"
	"github.com/harjunatn/fun-soccer/middleware"
	"github.com/harjunatn/fun-soccer/services"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // subscribers only receive change notifications
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	registrationHandler *handlers.RegistrationHandler,
	matchHandler *handlers.MatchHandler,
	authService *services.AuthService,
	hub *services.Hub,
	st store.Store,
) {
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.AuthMiddleware(authService), authHandler.GetProfile)
		}

		// Public game routes
		games := api.Group("/games")
		{
			games.GET("", gameHandler.ListGames)
			games.GET("/:id", gameHandler.GetGame)
			games.GET("/:id/standings", matchHandler.Standings)
			games.GET("/:id/matches/:matchId", matchHandler.GetMatch)
			games.POST("/:id/teams/:teamId/register", registrationHandler.Register)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(authService), middleware.RequireAdmin())
		{
			admin.GET("/registrations/pending", registrationHandler.GetPendingRegistrations)

			adminGames := admin.Group("/games")
			{
				adminGames.POST("", gameHandler.CreateGame)
				adminGames.GET("/:id", gameHandler.GetGameDetails)
				adminGames.PUT("/:id", gameHandler.UpdateGame)
				adminGames.POST("/:id/gallery", gameHandler.AddGalleryLink)
				adminGames.DELETE("/:id/gallery/:index", gameHandler.RemoveGalleryLink)
				adminGames.POST("/:id/players/:playerId/status", registrationHandler.UpdatePlayerStatus)
				adminGames.POST("/:id/matches/generate", matchHandler.GenerateMatches)
				adminGames.PUT("/:id/matches/:matchId/result", matchHandler.UpdateMatchResult)
			}
		}
	}

	// WebSocket endpoint for change notifications. Without game_id the
	// subscriber receives events for every game.
	router.GET("/ws", func(c *gin.Context) {
		gameID := c.Query("game_id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warnf("WebSocket upgrade failed for game %q: %v", gameID, err)
			return
		}

		if hub.RegisterClient(conn, gameID) == nil {
			logger.Warnf("Hub stopped, refused subscriber for game %q", gameID)
		}
	})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			logger.Errorf("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "subscribers": hub.ClientCount()})
	})
}
