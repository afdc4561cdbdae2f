package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/contest-api/internal/domain/entity"
)

// GlobalLeaderboardRow is one row of the cross-contest aggregate.
type GlobalLeaderboardRow struct {
	UserID               uint   `json:"user_id"`
	UserName             string `json:"user_name"`
	TotalScore           int64  `json:"total_score"`
	ContestsParticipated int64  `json:"contests_participated"`
	FirstPlaceFinishes   int64  `json:"first_place_finishes"`
}

// EntryRepository is the durable store for leaderboard entries.
//
// Create must fail with ErrDuplicateEntry when an entry for the same
// (user, contest) pair exists; the unique index is the only serialization
// point for concurrent submissions.
type EntryRepository interface {
	Create(entry *entity.LeaderboardEntry) error
	GetByUserAndContest(userID, contestID uint) (*entity.LeaderboardEntry, error)
	// GetContestTop returns up to limit entries for the contest ordered by
	// score descending, without loading the full entry set.
	GetContestTop(contestID uint, limit int) ([]entity.LeaderboardEntry, error)
	GetAllByContest(contestID uint) ([]entity.LeaderboardEntry, error)
	GetByUser(userID uint) ([]entity.LeaderboardEntry, error)
	// CountScoreAtLeast counts existing contest entries with score >= score,
	// used for the snapshot rank assigned at submission time.
	CountScoreAtLeast(contestID uint, score int) (int64, error)
	// RecomputeRanks re-derives all ranks for a contest from current scores
	// inside the given transaction: rank = position in score-descending
	// order, ties broken by insertion order.
	RecomputeRanks(tx *gorm.DB, contestID uint) error
	// GlobalAggregate groups entries by user across all contests.
	GlobalAggregate(limit int) ([]GlobalLeaderboardRow, error)
}
