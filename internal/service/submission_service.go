package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/contest-api/internal/domain/entity"
	"github.com/yourusername/contest-api/internal/domain/repository"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// LeaderboardNotifier pushes "leaderboard changed" events to connected
// clients. The websocket hub implements it; NoopNotifier is used where no
// hub exists (tests, CLI).
type LeaderboardNotifier interface {
	LeaderboardUpdated(contestID uint)
	RanksRecomputed(contestID uint)
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

// LeaderboardUpdated implements LeaderboardNotifier.
func (NoopNotifier) LeaderboardUpdated(uint) {}

// RanksRecomputed implements LeaderboardNotifier.
func (NoopNotifier) RanksRecomputed(uint) {}

// SubmissionResult is returned to the submitter. Rank is a snapshot
// estimate taken at creation time; the recomputation pass is authoritative.
type SubmissionResult struct {
	Score   int                   `json:"score"`
	Rank    int                   `json:"rank"`
	Answers []entity.GradedAnswer `json:"answers"`
}

// SubmissionService guards, grades and records contest submissions.
type SubmissionService struct {
	contestRepo repository.ContestRepository
	entryRepo   repository.EntryRepository
	cacheRepo   repository.CacheRepository
	clock       Clock
	notifier    LeaderboardNotifier
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	contestRepo repository.ContestRepository,
	entryRepo repository.EntryRepository,
	cacheRepo repository.CacheRepository,
	clock Clock,
	notifier LeaderboardNotifier,
) *SubmissionService {
	if clock == nil {
		clock = SystemClock()
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &SubmissionService{
		contestRepo: contestRepo,
		entryRepo:   entryRepo,
		cacheRepo:   cacheRepo,
		clock:       clock,
		notifier:    notifier,
	}
}

// Submit runs the full submission pipeline for one request:
// guard (access tier, time window) -> grade -> snapshot rank -> store write.
//
// The (user, contest) uniqueness check is NOT done with a read here; the
// store's unique index decides, so concurrent attempts for the same pair
// produce exactly one entry and the losers get ErrAlreadySubmitted.
func (s *SubmissionService) Submit(userID uint, role string, contestID uint, answers []SubmittedAnswer) (*SubmissionResult, error) {
	contest, err := s.contestRepo.GetWithQuestions(contestID)
	if err != nil {
		return nil, err
	}

	// Access tier before the window check, both independently required.
	if contest.IsVIPOnly() && !entity.CanAccessLevel(role, contest.AccessLevel) {
		return nil, fmt.Errorf("%w: contest #%d is vip-only", apperrors.ErrForbidden, contestID)
	}

	if !contest.IsOpenAt(s.clock.Now()) {
		return nil, fmt.Errorf("%w: contest #%d", apperrors.ErrContestNotActive, contestID)
	}

	graded, totalScore, err := GradeSubmission(contest.Questions, answers)
	if err != nil {
		return nil, err
	}

	// Snapshot rank: 1 + entries already at or above this score. Stale the
	// moment concurrent submissions land; recomputation corrects it.
	atOrAbove, err := s.entryRepo.CountScoreAtLeast(contestID, totalScore)
	if err != nil {
		return nil, err
	}
	initialRank := int(atOrAbove) + 1

	entry := &entity.LeaderboardEntry{
		UserID:    userID,
		ContestID: contestID,
		Score:     totalScore,
		Answers:   graded,
		Rank:      initialRank,
	}
	if err := s.entryRepo.Create(entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: contest #%d", apperrors.ErrAlreadySubmitted, contestID)
		}
		return nil, err
	}

	// Participant list and cache are best-effort after the authoritative
	// write; the entry itself is already durable.
	if err := s.contestRepo.AppendParticipant(contestID, userID); err != nil {
		log.Printf("[SubmissionService] Warning: failed to append participant #%d to contest #%d: %v", userID, contestID, err)
	}
	s.invalidateLeaderboards(contestID)
	s.notifier.LeaderboardUpdated(contestID)

	log.Printf("[SubmissionService] User #%d submitted to contest #%d: score=%d rank=%d", userID, contestID, totalScore, initialRank)

	return &SubmissionResult{
		Score:   totalScore,
		Rank:    initialRank,
		Answers: graded,
	}, nil
}

func (s *SubmissionService) invalidateLeaderboards(contestID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.DeleteByPrefix(contestLeaderboardKeyPrefix(contestID)); err != nil {
		log.Printf("[SubmissionService] Warning: failed to invalidate contest leaderboard cache: %v", err)
	}
	if err := s.cacheRepo.DeleteByPrefix(globalLeaderboardKeyPrefix); err != nil {
		log.Printf("[SubmissionService] Warning: failed to invalidate global leaderboard cache: %v", err)
	}
}
