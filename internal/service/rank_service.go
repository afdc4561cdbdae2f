package service

import (
	"database/sql"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/contest-api/internal/domain/repository"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// TxRunner runs a function inside a database transaction. *gorm.DB
// satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// RankRecomputeResult reports the outcome of one contest's recomputation.
// The batch never collapses into a single combined failure.
type RankRecomputeResult struct {
	ContestID uint   `json:"contest_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// RankService owns the authoritative rank recomputation pass.
type RankService struct {
	contestRepo repository.ContestRepository
	entryRepo   repository.EntryRepository
	cacheRepo   repository.CacheRepository
	db          TxRunner
	notifier    LeaderboardNotifier
}

// NewRankService creates a new rank service
func NewRankService(
	contestRepo repository.ContestRepository,
	entryRepo repository.EntryRepository,
	cacheRepo repository.CacheRepository,
	db TxRunner,
	notifier LeaderboardNotifier,
) *RankService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &RankService{
		contestRepo: contestRepo,
		entryRepo:   entryRepo,
		cacheRepo:   cacheRepo,
		db:          db,
		notifier:    notifier,
	}
}

// RecomputeAllRanks re-derives ranks for every contest. Each contest is an
// independent transactional unit: a failure is recorded in that contest's
// result and the batch moves on. Idempotent, safe to run repeatedly.
func (s *RankService) RecomputeAllRanks() ([]RankRecomputeResult, error) {
	contestIDs, err := s.contestRepo.ListIDs()
	if err != nil {
		return nil, fmt.Errorf("%w: listing contests: %v", apperrors.ErrStoreUnavailable, err)
	}

	results := make([]RankRecomputeResult, 0, len(contestIDs))
	for _, contestID := range contestIDs {
		if err := s.RecomputeContest(contestID); err != nil {
			log.Printf("[RankService] Recompute failed for contest #%d: %v", contestID, err)
			results = append(results, RankRecomputeResult{ContestID: contestID, OK: false, Error: err.Error()})
			continue
		}
		results = append(results, RankRecomputeResult{ContestID: contestID, OK: true})
	}

	log.Printf("[RankService] Rank recomputation finished for %d contests", len(contestIDs))
	return results, nil
}

// RecomputeContest re-derives ranks for a single contest inside one
// transaction, then invalidates cached leaderboard pages.
func (s *RankService) RecomputeContest(contestID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.entryRepo.RecomputeRanks(tx, contestID)
	})
	if err != nil {
		return fmt.Errorf("%w: contest #%d: %v", apperrors.ErrStoreUnavailable, contestID, err)
	}

	s.invalidateAfterRecompute(contestID)
	s.notifier.RanksRecomputed(contestID)
	return nil
}

func (s *RankService) invalidateAfterRecompute(contestID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.DeleteByPrefix(contestLeaderboardKeyPrefix(contestID)); err != nil {
		log.Printf("[RankService] Warning: failed to invalidate contest leaderboard cache: %v", err)
	}
	if err := s.cacheRepo.DeleteByPrefix(globalLeaderboardKeyPrefix); err != nil {
		log.Printf("[RankService] Warning: failed to invalidate global leaderboard cache: %v", err)
	}
}
