package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// GradedAnswer is the per-question grading outcome recorded on an entry.
type GradedAnswer struct {
	QuestionID      uint     `json:"question_id"`
	SelectedAnswers []string `json:"selected_answers"`
	IsCorrect       bool     `json:"is_correct"`
	PointsEarned    int      `json:"points_earned"`
}

// GradedAnswerList is a custom type for the JSONB answers column
type GradedAnswerList []GradedAnswer

// Scan implements sql.Scanner for GradedAnswerList
func (o *GradedAnswerList) Scan(value interface{}) error {
	if value == nil {
		*o = GradedAnswerList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = GradedAnswerList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer for GradedAnswerList
func (o GradedAnswerList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// LeaderboardEntry is a user's single graded submission record for one
// contest. The composite unique index on (user_id, contest_id) is the
// double-submission guard's enforcement target. Entries are insert-only;
// only Rank is overwritten, by recomputation.
type LeaderboardEntry struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index;uniqueIndex:idx_user_contest" json:"user_id"`
	ContestID uint             `gorm:"not null;index;uniqueIndex:idx_user_contest;index:idx_contest_score" json:"contest_id"`
	Score     int              `gorm:"not null;default:0;index:idx_contest_score,sort:desc" json:"score"`
	Answers   GradedAnswerList `gorm:"type:jsonb;not null" json:"answers"`
	Rank      int              `gorm:"not null;default:0" json:"rank"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName defines the GORM table name
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}

// CorrectCount returns the number of correctly answered questions.
func (e *LeaderboardEntry) CorrectCount() int {
	n := 0
	for _, a := range e.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}
