package repository

import (
	"github.com/yourusername/contest-api/internal/domain/entity"
)

// ContestRepository defines the contest read/write paths the core needs.
// Contests are owned by the authoring collaborator; this core only creates
// them on its behalf and appends to the participant list.
type ContestRepository interface {
	Create(contest *entity.Contest) error
	GetByID(id uint) (*entity.Contest, error)
	// GetWithQuestions loads the contest together with its question set,
	// including answer keys. Callers must strip keys before exposure.
	GetWithQuestions(id uint) (*entity.Contest, error)
	// List returns contests newest-first. When includeVIP is false,
	// vip contests are filtered out (normal/guest visibility).
	List(includeVIP bool) ([]entity.Contest, error)
	// ListIDs returns the IDs of all contests, for batch rank recomputation.
	ListIDs() ([]uint, error)
	// GetByIDs returns contests with questions preloaded, keyed by ID.
	// Used to enrich per-user leaderboard views with contest summaries.
	GetByIDs(ids []uint) (map[uint]entity.Contest, error)
	// AppendParticipant appends userID to the contest's participant list.
	AppendParticipant(contestID, userID uint) error
}
