package handlers

import (
	"net/http"

	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/services"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
	hub                 Publisher
}

func NewRegistrationHandler(registrationService *services.RegistrationService, hub Publisher) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		hub:                 hub,
	}
}

// POST /api/games/:id/teams/:teamId/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req services.RegisterPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, services.RegistrationResult{Error: err.Error()})
		return
	}

	gameID := c.Param("id")
	result := h.registrationService.RegisterPlayer(c.Request.Context(), gameID, c.Param("teamId"), &req)
	if !result.Success {
		c.JSON(statusFor(result.Err), result)
		return
	}

	if h.hub != nil {
		h.hub.Publish(gameID, services.EventRegistrationCreated, gin.H{"team_id": c.Param("teamId")})
	}
	c.JSON(http.StatusCreated, result)
}

func (h *RegistrationHandler) GetPendingRegistrations(c *gin.Context) {
	pending, err := h.registrationService.GetPendingRegistrations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pending)
}

type updateStatusRequest struct {
	Status models.PlayerStatus `json:"status" binding:"required"`
}

func (h *RegistrationHandler) UpdatePlayerStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gameID := c.Param("id")
	player, err := h.registrationService.UpdatePlayerStatus(c.Request.Context(), gameID, c.Param("playerId"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.Publish(gameID, services.EventPlayerStatusUpdated, gin.H{"player_id": player.ID, "status": player.Status})
	}
	c.JSON(http.StatusOK, player)
}
