package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Question type constants
const (
	QuestionTypeSingleSelect = "single_select"
	QuestionTypeMultiSelect  = "multi_select"
	QuestionTypeTrueFalse    = "true_false"
)

// StringArray is a custom type for JSONB string arrays
type StringArray []string

// Scan implements sql.Scanner for StringArray.
// Used by GORM to read JSONB data from the database.
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer for StringArray.
// Used by GORM to write StringArray as JSONB.
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // empty JSON array instead of null
	}
	return json.Marshal(o)
}

// Question represents a single contest question.
// CorrectAnswers is the answer key and is never serialized to clients.
type Question struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	ContestID      uint        `gorm:"not null;index" json:"contest_id"`
	Type           string      `gorm:"size:20;not null;default:'single_select'" json:"type"`
	Text           string      `gorm:"size:500;not null" json:"text"`
	Options        StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswers StringArray `gorm:"type:jsonb;not null" json:"-"` // hidden from clients
	Points         int         `gorm:"not null;default:10" json:"points"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName defines the GORM table name
func (Question) TableName() string {
	return "questions"
}

// IsValidType reports whether t is a known question type.
func IsValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeSingleSelect, QuestionTypeMultiSelect, QuestionTypeTrueFalse:
		return true
	}
	return false
}

// IsCorrect checks the selected answers against the answer key.
// Comparison is by set equality: order never matters and duplicate
// selections are collapsed before comparing.
func (q *Question) IsCorrect(selected []string) bool {
	selectedSet := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		selectedSet[s] = struct{}{}
	}
	correctSet := make(map[string]struct{}, len(q.CorrectAnswers))
	for _, c := range q.CorrectAnswers {
		correctSet[c] = struct{}{}
	}
	if len(selectedSet) != len(correctSet) {
		return false
	}
	for c := range correctSet {
		if _, ok := selectedSet[c]; !ok {
			return false
		}
	}
	return true
}

// CalculatePoints returns the question's full point value for a correct
// answer and 0 otherwise. There is no partial credit.
func (q *Question) CalculatePoints(isCorrect bool) int {
	if !isCorrect {
		return 0
	}
	return q.Points
}
