package dto

import (
	"time"

	"github.com/yourusername/contest-api/internal/domain/entity"
)

// QuestionResponse is a question as exposed to clients. The answer key is
// never part of this shape.
type QuestionResponse struct {
	ID      uint     `json:"id"`
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Points  int      `json:"points"`
}

// ContestResponse is a contest as exposed to clients.
type ContestResponse struct {
	ID               uint               `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description,omitempty"`
	StartTime        time.Time          `json:"start_time"`
	EndTime          time.Time          `json:"end_time"`
	AccessLevel      string             `json:"access_level"`
	PrizeDescription string             `json:"prize_description"`
	PrizeValue       int                `json:"prize_value"`
	QuestionCount    int                `json:"question_count"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// NewQuestionResponse builds the client-facing question DTO. CorrectAnswers
// is deliberately dropped here rather than relying on struct tags alone.
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		Type:    q.Type,
		Text:    q.Text,
		Options: q.Options,
		Points:  q.Points,
	}
}

// NewContestResponse builds the contest DTO, optionally with questions.
func NewContestResponse(contest *entity.Contest, includeQuestions bool) *ContestResponse {
	resp := &ContestResponse{
		ID:               contest.ID,
		Name:             contest.Name,
		Description:      contest.Description,
		StartTime:        contest.StartTime,
		EndTime:          contest.EndTime,
		AccessLevel:      contest.AccessLevel,
		PrizeDescription: contest.PrizeDescription,
		PrizeValue:       contest.PrizeValue,
		QuestionCount:    len(contest.Questions),
		CreatedAt:        contest.CreatedAt,
	}
	if includeQuestions {
		resp.Questions = make([]QuestionResponse, 0, len(contest.Questions))
		for i := range contest.Questions {
			resp.Questions = append(resp.Questions, NewQuestionResponse(&contest.Questions[i]))
		}
	}
	return resp
}

// NewListContestResponse builds the DTO list for a contest listing.
// Questions are never included in listings.
func NewListContestResponse(contests []entity.Contest) []*ContestResponse {
	out := make([]*ContestResponse, 0, len(contests))
	for i := range contests {
		out = append(out, NewContestResponse(&contests[i], false))
	}
	return out
}
