package handlers

import (
	"net/http"
	"strconv"

	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
	hub         Publisher
}

func NewGameHandler(gameService *services.GameService, hub Publisher) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		hub:         hub,
	}
}

func (h *GameHandler) publish(gameID, eventType string, payload interface{}) {
	if h.hub != nil {
		h.hub.Publish(gameID, eventType, payload)
	}
}

// GET /api/games?status=upcoming|completed
func (h *GameHandler) ListGames(c *gin.Context) {
	status := models.GameStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	games, err := h.gameService.ListGames(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	public := make([]*models.Game, len(games))
	for i := range games {
		public[i] = games[i].Redacted()
	}
	c.JSON(http.StatusOK, public)
}

// GetGame is the public view: player contacts and payment proofs are left out.
func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.gameService.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game.Redacted())
}

// GetGameDetails returns the full game for organizers.
func (h *GameHandler) GetGameDetails(c *gin.Context) {
	game, err := h.gameService.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	var req services.GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(game.ID, services.EventGameUpdated, nil)
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	var req services.GameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.UpdateGame(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(game.ID, services.EventGameUpdated, nil)
	c.JSON(http.StatusOK, game)
}

type galleryLinkRequest struct {
	Link string `json:"link" binding:"required"`
}

func (h *GameHandler) AddGalleryLink(c *gin.Context) {
	var req galleryLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.AddGalleryLink(c.Request.Context(), c.Param("id"), req.Link)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(game.ID, services.EventGameUpdated, nil)
	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) RemoveGalleryLink(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gallery link index"})
		return
	}

	game, err := h.gameService.RemoveGalleryLink(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(game.ID, services.EventGameUpdated, nil)
	c.JSON(http.StatusOK, game)
}
