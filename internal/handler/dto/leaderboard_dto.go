package dto

import (
	"time"

	"github.com/yourusername/contest-api/internal/domain/entity"
)

// ContestLeaderboardRow is one line of a contest leaderboard: the entry
// enriched with the submitter's public name, never the answer key.
type ContestLeaderboardRow struct {
	Rank         int    `json:"rank"`
	UserID       uint   `json:"user_id"`
	UserName     string `json:"user_name"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correct_count"`
	TotalCount   int    `json:"total_count"`
}

// ContestSummary is the contest digest attached to per-user views.
type ContestSummary struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	PrizeDescription string    `json:"prize_description"`
	PrizeValue       int       `json:"prize_value"`
	QuestionCount    int       `json:"question_count"`
}

// UserContestEntryResponse is one leaderboard entry in a user's history,
// enriched with its contest summary.
type UserContestEntryResponse struct {
	EntryID       uint           `json:"entry_id"`
	Contest       ContestSummary `json:"contest"`
	Score         int            `json:"score"`
	Rank          int            `json:"rank"`
	AnsweredCount int            `json:"answered_count"`
	CorrectCount  int            `json:"correct_count"`
	SubmittedAt   time.Time      `json:"submitted_at"`
}

// NewUserContestEntryResponse joins an entry with its contest.
func NewUserContestEntryResponse(entry *entity.LeaderboardEntry, contest *entity.Contest) UserContestEntryResponse {
	return UserContestEntryResponse{
		EntryID: entry.ID,
		Contest: ContestSummary{
			ID:               contest.ID,
			Name:             contest.Name,
			Description:      contest.Description,
			StartTime:        contest.StartTime,
			EndTime:          contest.EndTime,
			PrizeDescription: contest.PrizeDescription,
			PrizeValue:       contest.PrizeValue,
			QuestionCount:    len(contest.Questions),
		},
		Score:         entry.Score,
		Rank:          entry.Rank,
		AnsweredCount: len(entry.Answers),
		CorrectCount:  entry.CorrectCount(),
		SubmittedAt:   entry.CreatedAt,
	}
}
