package postgres

import (
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/contest-api/internal/domain/entity"
	"github.com/yourusername/contest-api/internal/domain/repository"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// EntryRepo implements repository.EntryRepository
type EntryRepo struct {
	db *gorm.DB
}

// NewEntryRepo creates a new leaderboard entry repository
func NewEntryRepo(db *gorm.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create inserts the entry. The idx_user_contest unique index serializes
// concurrent submissions for the same (user, contest) pair: exactly one
// insert wins, the rest surface as ErrDuplicateEntry.
func (r *EntryRepo) Create(entry *entity.LeaderboardEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user #%d contest #%d", repository.ErrDuplicateEntry, entry.UserID, entry.ContestID)
		}
		return err
	}
	return nil
}

// GetByUserAndContest returns the user's entry for a contest.
func (r *EntryRepo) GetByUserAndContest(userID, contestID uint) (*entity.LeaderboardEntry, error) {
	var entry entity.LeaderboardEntry
	err := r.db.Where("user_id = ? AND contest_id = ?", userID, contestID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetContestTop returns the top entries for a contest, score descending.
// The idx_contest_score index serves this without loading the full set.
func (r *EntryRepo) GetContestTop(contestID uint, limit int) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.Where("contest_id = ?", contestID).
		Order("score DESC, id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// GetAllByContest returns every entry for a contest, score descending.
func (r *EntryRepo) GetAllByContest(contestID uint) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.Where("contest_id = ?", contestID).
		Order("score DESC, id ASC").
		Find(&entries).Error
	return entries, err
}

// GetByUser returns all of a user's entries across contests, newest first.
func (r *EntryRepo) GetByUser(userID uint) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// CountScoreAtLeast counts contest entries whose score is >= score.
func (r *EntryRepo) CountScoreAtLeast(contestID uint, score int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.LeaderboardEntry{}).
		Where("contest_id = ? AND score >= ?", contestID, score).
		Count(&count).Error
	return count, err
}

// RecomputeRanks re-derives all ranks for one contest with a window
// function, inside the caller's transaction. ROW_NUMBER gives strict
// sequential ranks; ties are broken by insertion order (id ASC), not shared.
func (r *EntryRepo) RecomputeRanks(tx *gorm.DB, contestID uint) error {
	sql := `
	WITH ranked AS (
	    SELECT
	        id,
	        ROW_NUMBER() OVER (ORDER BY score DESC, id ASC) AS calculated_rank
	    FROM leaderboard_entries
	    WHERE contest_id = ?
	)
	UPDATE leaderboard_entries e
	SET rank = r.calculated_rank, updated_at = NOW()
	FROM ranked r
	WHERE e.id = r.id AND e.contest_id = ?;`

	if err := tx.Exec(sql, contestID, contestID).Error; err != nil {
		log.Printf("[EntryRepo] Error recomputing ranks for contest %d: %v", contestID, err)
		return err
	}
	return nil
}

// GlobalAggregate groups entries by user across all contests: summed score,
// participation count and first-place count, ordered by summed score.
func (r *EntryRepo) GlobalAggregate(limit int) ([]repository.GlobalLeaderboardRow, error) {
	var rows []repository.GlobalLeaderboardRow
	err := r.db.Table("leaderboard_entries AS e").
		Select(`
			e.user_id,
			u.name AS user_name,
			SUM(e.score) AS total_score,
			COUNT(*) AS contests_participated,
			COUNT(*) FILTER (WHERE e.rank = 1) AS first_place_finishes
		`).
		Joins("JOIN users u ON u.id = e.user_id").
		Group("e.user_id, u.name").
		Order("total_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// isUniqueViolation checks for a Postgres unique violation (23505) from
// both the pgconn and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
