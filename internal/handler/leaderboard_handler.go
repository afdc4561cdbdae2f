package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/contest-api/internal/handler/dto"
	"github.com/yourusername/contest-api/internal/service"
)

// LeaderboardHandler serves the leaderboard read paths, the admin
// recomputation trigger and the export endpoint.
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	rankService        *service.RankService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService, rankService *service.RankService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		rankService:        rankService,
	}
}

// GetContestLeaderboard returns the contest's top-N.
func (h *LeaderboardHandler) GetContestLeaderboard(c *gin.Context) {
	contestID := c.MustGet("contestID").(uint)

	rows, err := h.leaderboardService.GetContestLeaderboard(contestID, limitQuery(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contest_id": contestID, "leaderboard": rows})
}

// GetUserRanking returns one user's entry on a contest leaderboard.
func (h *LeaderboardHandler) GetUserRanking(c *gin.Context) {
	contestID := c.MustGet("contestID").(uint)
	userID := c.MustGet("rankingUserID").(uint)

	row, err := h.leaderboardService.GetUserContestRanking(contestID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// GetGlobalLeaderboard returns the cross-contest aggregate.
func (h *LeaderboardHandler) GetGlobalLeaderboard(c *gin.Context) {
	rows, err := h.leaderboardService.GetGlobalLeaderboard(limitQuery(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

// RecomputeRanks rebuilds stored ranks for every contest. Admin only.
func (h *LeaderboardHandler) RecomputeRanks(c *gin.Context) {
	results, err := h.rankService.RecomputeAllRanks()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rank recomputation finished", "results": results})
}

// ExportLeaderboard streams the full contest leaderboard as csv or xlsx.
// Admin only.
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	contestID := c.MustGet("contestID").(uint)
	format := c.DefaultQuery("format", "csv")

	rows, err := h.leaderboardService.GetContestLeaderboardFull(contestID)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("contest_%d_leaderboard_%s", contestID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, rows, filename)
	default:
		h.exportCSV(c, rows, filename)
	}
}

var exportHeaders = []string{"Rank", "User ID", "User", "Score", "Correct", "Answered"}

func (h *LeaderboardHandler) exportCSV(c *gin.Context, rows []dto.ContestLeaderboardRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM so Excel detects UTF-8.
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, r := range rows {
		writer.Write([]string{
			strconv.Itoa(r.Rank),
			strconv.FormatUint(uint64(r.UserID), 10),
			sanitizeForExcel(r.UserName),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.CorrectCount),
			strconv.Itoa(r.TotalCount),
		})
	}
}

func (h *LeaderboardHandler) exportXLSX(c *gin.Context, rows []dto.ContestLeaderboardRow, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Leaderboard"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[LeaderboardHandler] Failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, hdr := range exportHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[LeaderboardHandler] Failed to write headers: %v", err)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{r.Rank, r.UserID, sanitizeForExcel(r.UserName), r.Score, r.CorrectCount, r.TotalCount}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[LeaderboardHandler] Failed to write row %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[LeaderboardHandler] Flush failed: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LeaderboardHandler] Failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel guards exported cells against formula injection.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
