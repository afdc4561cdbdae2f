package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/contest-api/internal/handler/dto"
	"github.com/yourusername/contest-api/internal/service"
)

// ContestHandler serves contest authoring, listing and submissions.
type ContestHandler struct {
	contestService    *service.ContestService
	submissionService *service.SubmissionService
}

// NewContestHandler creates a new contest handler
func NewContestHandler(contestService *service.ContestService, submissionService *service.SubmissionService) *ContestHandler {
	return &ContestHandler{
		contestService:    contestService,
		submissionService: submissionService,
	}
}

// CreateQuestionRequest is one question in the create payload.
type CreateQuestionRequest struct {
	Type           string   `json:"type" binding:"required"`
	Text           string   `json:"text" binding:"required,min=3,max=500"`
	Options        []string `json:"options" binding:"required,min=2"`
	CorrectAnswers []string `json:"correct_answers" binding:"required,min=1"`
	Points         int      `json:"points" binding:"required,min=1"`
}

// CreateContestRequest is the admin payload for creating a contest.
type CreateContestRequest struct {
	Name             string                  `json:"name" binding:"required,min=3,max=100"`
	Description      string                  `json:"description" binding:"omitempty,max=500"`
	StartTime        time.Time               `json:"start_time" binding:"required"`
	EndTime          time.Time               `json:"end_time" binding:"required"`
	AccessLevel      string                  `json:"access_level" binding:"required,oneof=normal vip"`
	PrizeDescription string                  `json:"prize_description"`
	PrizeValue       int                     `json:"prize_value"`
	Questions        []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CreateContest handles the admin create request.
func (h *ContestHandler) CreateContest(c *gin.Context) {
	var req CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.NewContestInput{
		Name:             req.Name,
		Description:      req.Description,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		AccessLevel:      req.AccessLevel,
		PrizeDescription: req.PrizeDescription,
		PrizeValue:       req.PrizeValue,
	}
	for _, q := range req.Questions {
		input.Questions = append(input.Questions, service.NewQuestionInput{
			Type:           q.Type,
			Text:           q.Text,
			Options:        q.Options,
			CorrectAnswers: q.CorrectAnswers,
			Points:         q.Points,
		})
	}

	contest, err := h.contestService.CreateContest(input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewContestResponse(contest, true))
}

// ListContests returns contests visible to the caller.
func (h *ContestHandler) ListContests(c *gin.Context) {
	contests, err := h.contestService.ListContests(roleFromContext(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListContestResponse(contests))
}

// GetContest returns one contest with its questions. Correct answers are
// never serialized.
func (h *ContestHandler) GetContest(c *gin.Context) {
	contestID := c.MustGet("contestID").(uint)

	contest, err := h.contestService.GetContest(contestID, roleFromContext(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContestResponse(contest, true))
}

// SubmitRequest is the participant's answer sheet.
type SubmitRequest struct {
	Answers []struct {
		QuestionID      uint     `json:"question_id" binding:"required"`
		SelectedAnswers []string `json:"selected_answers"`
	} `json:"answers" binding:"required"`
}

// Submit grades and records the caller's submission for a contest.
func (h *ContestHandler) Submit(c *gin.Context) {
	contestID := c.MustGet("contestID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answers := make([]service.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, service.SubmittedAnswer{
			QuestionID:      a.QuestionID,
			SelectedAnswers: a.SelectedAnswers,
		})
	}

	result, err := h.submissionService.Submit(userID, roleFromContext(c), contestID, answers)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
