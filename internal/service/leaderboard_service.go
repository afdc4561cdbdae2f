package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/contest-api/internal/domain/entity"
	"github.com/yourusername/contest-api/internal/domain/repository"
	"github.com/yourusername/contest-api/internal/handler/dto"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// leaderboardCacheTTL keeps cached leaderboard pages short-lived; writes
// also invalidate eagerly, the TTL is the backstop.
const leaderboardCacheTTL = 30 * time.Second

const globalLeaderboardKeyPrefix = "leaderboard:global:"

func contestLeaderboardKeyPrefix(contestID uint) string {
	return fmt.Sprintf("leaderboard:contest:%d:", contestID)
}

func contestLeaderboardKey(contestID uint, limit int) string {
	return contestLeaderboardKeyPrefix(contestID) + strconv.Itoa(limit)
}

func globalLeaderboardKey(limit int) string {
	return globalLeaderboardKeyPrefix + strconv.Itoa(limit)
}

// LeaderboardService builds the read views over the entry store: contest
// top-N, per-user history/in-progress/prizes and the global aggregate.
// Pure projection — no state of its own beyond the cache.
type LeaderboardService struct {
	contestRepo repository.ContestRepository
	entryRepo   repository.EntryRepository
	userRepo    repository.UserRepository
	cacheRepo   repository.CacheRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(
	contestRepo repository.ContestRepository,
	entryRepo repository.EntryRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
) *LeaderboardService {
	return &LeaderboardService{
		contestRepo: contestRepo,
		entryRepo:   entryRepo,
		userRepo:    userRepo,
		cacheRepo:   cacheRepo,
	}
}

// normalizeLimit applies the default of 10 and the cap of 100.
func normalizeLimit(limit int) int {
	if limit < 1 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// GetContestLeaderboard returns the contest's top-N ordered by score
// descending, each row enriched with the submitter's public name.
func (s *LeaderboardService) GetContestLeaderboard(contestID uint, limit int) ([]dto.ContestLeaderboardRow, error) {
	limit = normalizeLimit(limit)

	var cached []dto.ContestLeaderboardRow
	if s.cacheGet(contestLeaderboardKey(contestID, limit), &cached) {
		return cached, nil
	}

	// Existence check so an unknown contest is a 404, not an empty board.
	if _, err := s.contestRepo.GetByID(contestID); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.GetContestTop(contestID, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.buildContestRows(entries)
	if err != nil {
		return nil, err
	}

	s.cacheSet(contestLeaderboardKey(contestID, limit), rows)
	return rows, nil
}

// GetContestLeaderboardFull returns every entry for the contest, used by
// the admin export. Uncached.
func (s *LeaderboardService) GetContestLeaderboardFull(contestID uint) ([]dto.ContestLeaderboardRow, error) {
	if _, err := s.contestRepo.GetByID(contestID); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.GetAllByContest(contestID)
	if err != nil {
		return nil, err
	}
	return s.buildContestRows(entries)
}

func (s *LeaderboardService) buildContestRows(entries []entity.LeaderboardEntry) ([]dto.ContestLeaderboardRow, error) {
	userIDs := make([]uint, 0, len(entries))
	for i := range entries {
		userIDs = append(userIDs, entries[i].UserID)
	}
	users, err := s.userRepo.GetByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.ContestLeaderboardRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		user, ok := users[e.UserID]
		if !ok {
			// Entry referencing a vanished user: skip rather than render a
			// nameless row.
			log.Printf("[LeaderboardService] Entry #%d references missing user #%d", e.ID, e.UserID)
			continue
		}
		rows = append(rows, dto.ContestLeaderboardRow{
			Rank:         e.Rank,
			UserID:       e.UserID,
			UserName:     user.Name,
			Score:        e.Score,
			CorrectCount: e.CorrectCount(),
			TotalCount:   len(e.Answers),
		})
	}
	return rows, nil
}

// GetUserContestRanking returns a single user's entry on a contest
// leaderboard, enriched with the user's public name. ErrNotFound when the
// user has not participated in the contest.
func (s *LeaderboardService) GetUserContestRanking(contestID, userID uint) (*dto.ContestLeaderboardRow, error) {
	entry, err := s.entryRepo.GetByUserAndContest(userID, contestID)
	if err != nil {
		return nil, err
	}

	row := &dto.ContestLeaderboardRow{
		Rank:         entry.Rank,
		UserID:       entry.UserID,
		Score:        entry.Score,
		CorrectCount: entry.CorrectCount(),
		TotalCount:   len(entry.Answers),
	}

	user, err := s.userRepo.GetByID(userID)
	switch {
	case err == nil:
		row.UserName = user.Name
	case errors.Is(err, apperrors.ErrNotFound):
		// The entry outlived the user row; serve the ranking without a name.
		log.Printf("[LeaderboardService] Entry #%d references missing user #%d", entry.ID, userID)
	default:
		return nil, err
	}
	return row, nil
}

// GetGlobalLeaderboard returns the cross-contest aggregate: per user the
// summed score, participation count and first-place count, top-N by
// summed score.
func (s *LeaderboardService) GetGlobalLeaderboard(limit int) ([]repository.GlobalLeaderboardRow, error) {
	limit = normalizeLimit(limit)

	var cached []repository.GlobalLeaderboardRow
	if s.cacheGet(globalLeaderboardKey(limit), &cached) {
		return cached, nil
	}

	rows, err := s.entryRepo.GlobalAggregate(limit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(globalLeaderboardKey(limit), rows)
	return rows, nil
}

// GetUserHistory returns all of the user's entries enriched with contest
// summaries, newest first.
func (s *LeaderboardService) GetUserHistory(userID uint) ([]dto.UserContestEntryResponse, error) {
	return s.userEntries(userID, func(*entity.LeaderboardEntry, *entity.Contest) bool { return true })
}

// GetUserInProgress returns the subset of history where the recorded
// answer set is strictly shorter than the contest's question count.
func (s *LeaderboardService) GetUserInProgress(userID uint) ([]dto.UserContestEntryResponse, error) {
	return s.userEntries(userID, func(e *entity.LeaderboardEntry, c *entity.Contest) bool {
		return len(e.Answers) > 0 && len(e.Answers) < len(c.Questions)
	})
}

// GetUserPrizes returns the subset of history with rank 1.
func (s *LeaderboardService) GetUserPrizes(userID uint) ([]dto.UserContestEntryResponse, error) {
	return s.userEntries(userID, func(e *entity.LeaderboardEntry, _ *entity.Contest) bool {
		return e.Rank == 1
	})
}

func (s *LeaderboardService) userEntries(userID uint, keep func(*entity.LeaderboardEntry, *entity.Contest) bool) ([]dto.UserContestEntryResponse, error) {
	entries, err := s.entryRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	contestIDs := make([]uint, 0, len(entries))
	for i := range entries {
		contestIDs = append(contestIDs, entries[i].ContestID)
	}
	contests, err := s.contestRepo.GetByIDs(contestIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserContestEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		contest, ok := contests[e.ContestID]
		if !ok {
			// Entry referencing a vanished contest: skip rather than fail
			// the whole view.
			log.Printf("[LeaderboardService] Entry #%d references missing contest #%d", e.ID, e.ContestID)
			continue
		}
		if !keep(e, &contest) {
			continue
		}
		out = append(out, dto.NewUserContestEntryResponse(e, &contest))
	}
	return out, nil
}

func (s *LeaderboardService) cacheGet(key string, dest interface{}) bool {
	if s.cacheRepo == nil {
		return false
	}
	err := s.cacheRepo.GetJSON(key, dest)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[LeaderboardService] Cache read failed for %s: %v", key, err)
		}
		return false
	}
	return true
}

func (s *LeaderboardService) cacheSet(key string, value interface{}) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.SetJSON(key, value, leaderboardCacheTTL); err != nil {
		log.Printf("[LeaderboardService] Cache write failed for %s: %v", key, err)
	}
}
