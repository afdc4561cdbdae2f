package service

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/yourusername/contest-api/internal/domain/entity"
	"github.com/yourusername/contest-api/internal/domain/repository"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// ============================================================================
// Shared mocks for the service tests
// ============================================================================

type MockContestRepo struct {
	mock.Mock
}

func (m *MockContestRepo) Create(contest *entity.Contest) error {
	args := m.Called(contest)
	return args.Error(0)
}

func (m *MockContestRepo) GetByID(id uint) (*entity.Contest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contest), args.Error(1)
}

func (m *MockContestRepo) GetWithQuestions(id uint) (*entity.Contest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contest), args.Error(1)
}

func (m *MockContestRepo) List(includeVIP bool) ([]entity.Contest, error) {
	args := m.Called(includeVIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Contest), args.Error(1)
}

func (m *MockContestRepo) ListIDs() ([]uint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockContestRepo) GetByIDs(ids []uint) (map[uint]entity.Contest, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]entity.Contest), args.Error(1)
}

func (m *MockContestRepo) AppendParticipant(contestID, userID uint) error {
	args := m.Called(contestID, userID)
	return args.Error(0)
}

type MockEntryRepo struct {
	mock.Mock
}

func (m *MockEntryRepo) Create(entry *entity.LeaderboardEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEntryRepo) GetByUserAndContest(userID, contestID uint) (*entity.LeaderboardEntry, error) {
	args := m.Called(userID, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeaderboardEntry), args.Error(1)
}

func (m *MockEntryRepo) GetContestTop(contestID uint, limit int) ([]entity.LeaderboardEntry, error) {
	args := m.Called(contestID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

func (m *MockEntryRepo) GetAllByContest(contestID uint) ([]entity.LeaderboardEntry, error) {
	args := m.Called(contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

func (m *MockEntryRepo) GetByUser(userID uint) ([]entity.LeaderboardEntry, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

func (m *MockEntryRepo) CountScoreAtLeast(contestID uint, score int) (int64, error) {
	args := m.Called(contestID, score)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepo) RecomputeRanks(tx *gorm.DB, contestID uint) error {
	args := m.Called(tx, contestID)
	return args.Error(0)
}

func (m *MockEntryRepo) GlobalAggregate(limit int) ([]repository.GlobalLeaderboardRow, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.GlobalLeaderboardRow), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByIDs(ids []uint) (map[uint]entity.User, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]entity.User), args.Error(1)
}

// fakeCache is an in-memory CacheRepository with no TTL handling.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	// set when GetJSON should report a hit; the simple fake round-trips
	// through SetJSON's stored bytes
	getJSONFn func(key string, dest interface{}) error
	setJSONFn func(key string, value interface{}, expiration time.Duration) error
	deleted   []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) SetJSON(key string, value interface{}, expiration time.Duration) error {
	if f.setJSONFn != nil {
		return f.setJSONFn(key, value, expiration)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = []byte("set")
	return nil
}

func (f *fakeCache) GetJSON(key string, dest interface{}) error {
	if f.getJSONFn != nil {
		return f.getJSONFn(key, dest)
	}
	return apperrors.ErrNotFound
}

func (f *fakeCache) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.store, key)
	return nil
}

func (f *fakeCache) DeleteByPrefix(prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, prefix)
	return nil
}

// fixedClock always returns the same instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// recordingNotifier captures notification calls.
type recordingNotifier struct {
	mu         sync.Mutex
	updated    []uint
	recomputed []uint
}

func (n *recordingNotifier) LeaderboardUpdated(contestID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updated = append(n.updated, contestID)
}

func (n *recordingNotifier) RanksRecomputed(contestID uint) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recomputed = append(n.recomputed, contestID)
}
