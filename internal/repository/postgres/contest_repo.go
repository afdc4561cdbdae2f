package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/contest-api/internal/domain/entity"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// ContestRepo implements repository.ContestRepository
type ContestRepo struct {
	db *gorm.DB
}

// NewContestRepo creates a new contest repository
func NewContestRepo(db *gorm.DB) *ContestRepo {
	return &ContestRepo{db: db}
}

// Create persists a contest together with its questions.
func (r *ContestRepo) Create(contest *entity.Contest) error {
	return r.db.Create(contest).Error
}

// GetByID returns the contest without its questions.
func (r *ContestRepo) GetByID(id uint) (*entity.Contest, error) {
	var contest entity.Contest
	err := r.db.First(&contest, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &contest, nil
}

// GetWithQuestions returns the contest with its question set preloaded.
func (r *ContestRepo) GetWithQuestions(id uint) (*entity.Contest, error) {
	var contest entity.Contest
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id ASC")
	}).First(&contest, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &contest, nil
}

// List returns contests newest-first, hiding vip contests unless requested.
func (r *ContestRepo) List(includeVIP bool) ([]entity.Contest, error) {
	var contests []entity.Contest
	query := r.db.Order("start_time DESC")
	if !includeVIP {
		query = query.Where("access_level = ?", entity.AccessLevelNormal)
	}
	err := query.Find(&contests).Error
	return contests, err
}

// ListIDs returns all contest IDs.
func (r *ContestRepo) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Contest{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// GetByIDs returns contests with questions preloaded, keyed by ID.
// Missing IDs are absent from the map.
func (r *ContestRepo) GetByIDs(ids []uint) (map[uint]entity.Contest, error) {
	result := make(map[uint]entity.Contest, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var contests []entity.Contest
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id ASC")
	}).Where("id IN ?", ids).Find(&contests).Error
	if err != nil {
		return nil, err
	}
	for _, c := range contests {
		result[c.ID] = c
	}
	return result, nil
}

// AppendParticipant appends a user ID to the contest's JSONB participant
// list. Duplicate appends are harmless (the entry unique index is the real
// participation record).
func (r *ContestRepo) AppendParticipant(contestID, userID uint) error {
	result := r.db.Model(&entity.Contest{}).
		Where("id = ?", contestID).
		Update("participants", gorm.Expr("participants || to_jsonb(?::int)", userID))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
