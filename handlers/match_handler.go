package handlers

import (
	"net/http"
	"strconv"

	"github.com/harjunatn/fun-soccer/services"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService *services.MatchService
	hub          Publisher
}

func NewMatchHandler(matchService *services.MatchService, hub Publisher) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		hub:          hub,
	}
}

// POST /api/admin/games/:id/matches/generate?force=true
func (h *MatchHandler) GenerateMatches(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	gameID := c.Param("id")
	matches, err := h.matchService.GenerateMatches(c.Request.Context(), gameID, services.GenerateOptions{Force: force})
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.Publish(gameID, services.EventMatchesGenerated, gin.H{"count": len(matches)})
	}
	c.JSON(http.StatusOK, matches)
}

func (h *MatchHandler) UpdateMatchResult(c *gin.Context) {
	var req services.MatchResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gameID := c.Param("id")
	match, err := h.matchService.UpdateMatchResult(c.Request.Context(), gameID, c.Param("matchId"),
		*req.ScoreA, *req.ScoreB, req.ScorersA, req.ScorersB)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.Publish(gameID, services.EventMatchResultUpdated, gin.H{"match_id": match.ID})
	}
	c.JSON(http.StatusOK, match)
}

func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matchService.GetMatch(c.Request.Context(), c.Param("id"), c.Param("matchId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, match)
}

func (h *MatchHandler) Standings(c *gin.Context) {
	table, err := h.matchService.Standings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, table)
}
