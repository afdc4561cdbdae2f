package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/contest-api/internal/service"
)

// UserHandler serves the caller's own contest views.
type UserHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewUserHandler creates a new user handler
func NewUserHandler(leaderboardService *service.LeaderboardService) *UserHandler {
	return &UserHandler{leaderboardService: leaderboardService}
}

// GetMyContests returns every contest the caller has submitted to.
func (h *UserHandler) GetMyContests(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	entries, err := h.leaderboardService.GetUserHistory(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contests": entries})
}

// GetInProgress returns the caller's partially answered contests.
func (h *UserHandler) GetInProgress(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	entries, err := h.leaderboardService.GetUserInProgress(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contests": entries})
}

// GetPrizes returns the caller's first-place finishes with prize info.
func (h *UserHandler) GetPrizes(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	entries, err := h.leaderboardService.GetUserPrizes(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prizes": entries})
}
