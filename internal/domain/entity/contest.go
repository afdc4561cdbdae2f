package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Contest access levels
const (
	AccessLevelNormal = "normal"
	AccessLevelVIP    = "vip"
)

// UintArray is a custom type for JSONB arrays of IDs
type UintArray []uint

// Scan implements sql.Scanner for UintArray
func (o *UintArray) Scan(value interface{}) error {
	if value == nil {
		*o = UintArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = UintArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer for UintArray
func (o UintArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Contest represents a timed quiz contest. The core never mutates a contest
// after creation except for appending to Participants.
type Contest struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Description      string     `gorm:"size:500;not null;default:''" json:"description"`
	StartTime        time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime          time.Time  `gorm:"not null" json:"end_time"`
	AccessLevel      string     `gorm:"size:20;not null;default:'normal';index" json:"access_level"`
	PrizeDescription string     `gorm:"size:255;not null;default:''" json:"prize_description"`
	PrizeValue       int        `gorm:"not null;default:0" json:"prize_value"`
	Questions        []Question `gorm:"foreignKey:ContestID" json:"questions,omitempty"`
	Participants     UintArray  `gorm:"type:jsonb;not null;default:'[]'" json:"participants"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName defines the GORM table name
func (Contest) TableName() string {
	return "contests"
}

// IsOpenAt reports whether t falls inside the contest window.
// Both boundaries are inclusive.
func (c *Contest) IsOpenAt(t time.Time) bool {
	return !t.Before(c.StartTime) && !t.After(c.EndTime)
}

// IsVIPOnly reports whether the contest is restricted to vip/admin users.
func (c *Contest) IsVIPOnly() bool {
	return c.AccessLevel == AccessLevelVIP
}

// QuestionByID returns the contest question with the given ID, or nil.
func (c *Contest) QuestionByID(id uint) *Question {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i]
		}
	}
	return nil
}
