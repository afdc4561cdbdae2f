package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/contest-api/internal/domain/entity"
	"github.com/yourusername/contest-api/internal/domain/repository"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// NewQuestionInput is one question as supplied by the contest author.
type NewQuestionInput struct {
	Type           string
	Text           string
	Options        []string
	CorrectAnswers []string
	Points         int
}

// NewContestInput is the authoring payload for a contest.
type NewContestInput struct {
	Name             string
	Description      string
	StartTime        time.Time
	EndTime          time.Time
	AccessLevel      string
	PrizeDescription string
	PrizeValue       int
	Questions        []NewQuestionInput
}

// ContestService covers the contest read paths the core needs plus the
// authoring entry point used by admins.
type ContestService struct {
	contestRepo repository.ContestRepository
}

// NewContestService creates a new contest service
func NewContestService(contestRepo repository.ContestRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo}
}

// CreateContest validates and persists a contest with its questions.
func (s *ContestService) CreateContest(input NewContestInput) (*entity.Contest, error) {
	if err := validateContestInput(&input); err != nil {
		return nil, err
	}

	contest := &entity.Contest{
		Name:             input.Name,
		Description:      input.Description,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		AccessLevel:      input.AccessLevel,
		PrizeDescription: input.PrizeDescription,
		PrizeValue:       input.PrizeValue,
		Participants:     entity.UintArray{},
	}
	for _, q := range input.Questions {
		contest.Questions = append(contest.Questions, entity.Question{
			Type:           q.Type,
			Text:           q.Text,
			Options:        entity.StringArray(q.Options),
			CorrectAnswers: entity.StringArray(q.CorrectAnswers),
			Points:         q.Points,
		})
	}

	if err := s.contestRepo.Create(contest); err != nil {
		return nil, err
	}

	log.Printf("[ContestService] Created contest #%d (%q) with %d questions", contest.ID, contest.Name, len(contest.Questions))
	return contest, nil
}

// GetContest returns the contest with questions, enforcing the vip gate.
func (s *ContestService) GetContest(contestID uint, role string) (*entity.Contest, error) {
	contest, err := s.contestRepo.GetWithQuestions(contestID)
	if err != nil {
		return nil, err
	}
	if contest.IsVIPOnly() && !entity.CanAccessLevel(role, contest.AccessLevel) {
		return nil, fmt.Errorf("%w: contest #%d is vip-only", apperrors.ErrForbidden, contestID)
	}
	return contest, nil
}

// ListContests returns contests visible to the given role: normal and
// guest users never see vip contests.
func (s *ContestService) ListContests(role string) ([]entity.Contest, error) {
	includeVIP := role == entity.RoleVIP || role == entity.RoleAdmin
	return s.contestRepo.List(includeVIP)
}

func validateContestInput(input *NewContestInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: contest name is required", apperrors.ErrValidation)
	}
	if !input.EndTime.After(input.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidation)
	}
	if input.AccessLevel != entity.AccessLevelNormal && input.AccessLevel != entity.AccessLevelVIP {
		return fmt.Errorf("%w: invalid access level %q", apperrors.ErrValidation, input.AccessLevel)
	}
	if len(input.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", apperrors.ErrValidation)
	}
	for i, q := range input.Questions {
		if !entity.IsValidQuestionType(q.Type) {
			return fmt.Errorf("%w: question %d has invalid type %q", apperrors.ErrValidation, i+1, q.Type)
		}
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has no text", apperrors.ErrValidation, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", apperrors.ErrValidation, i+1)
		}
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("%w: question %d has no correct answers", apperrors.ErrValidation, i+1)
		}
		if q.Points < 1 {
			return fmt.Errorf("%w: question %d must be worth at least one point", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}
