package repository

import (
	"github.com/yourusername/contest-api/internal/domain/entity"
)

// UserRepository exposes the read-only user paths the core needs for
// enriching leaderboard views. User records are owned by the auth
// collaborator and never mutated here.
type UserRepository interface {
	GetByID(id uint) (*entity.User, error)
	// GetByIDs returns the users for the given IDs, keyed by ID. Missing
	// IDs are simply absent from the map.
	GetByIDs(ids []uint) (map[uint]entity.User, error)
}
