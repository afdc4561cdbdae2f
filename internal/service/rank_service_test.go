package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// fakeTxRunner invokes the callback with a nil transaction handle; the
// mocked entry repo never touches it.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	f.calls++
	return fc(nil)
}

func TestRecomputeContest_Success(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	entryRepo.On("RecomputeRanks", mock.Anything, uint(5)).Return(nil)

	cache := newFakeCache()
	notifier := &recordingNotifier{}
	tx := &fakeTxRunner{}

	svc := NewRankService(new(MockContestRepo), entryRepo, cache, tx, notifier)

	err := svc.RecomputeContest(5)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []uint{5}, notifier.recomputed)
	assert.NotEmpty(t, cache.deleted, "cached leaderboard pages must be invalidated")
	entryRepo.AssertExpectations(t)
}

func TestRecomputeContest_StoreFailure(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	entryRepo.On("RecomputeRanks", mock.Anything, uint(5)).Return(errors.New("deadlock detected"))

	notifier := &recordingNotifier{}
	svc := NewRankService(new(MockContestRepo), entryRepo, newFakeCache(), &fakeTxRunner{}, notifier)

	err := svc.RecomputeContest(5)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.Empty(t, notifier.recomputed, "no notification on failure")
}

func TestRecomputeAllRanks_FailuresAreIndependent(t *testing.T) {
	contestRepo := new(MockContestRepo)
	contestRepo.On("ListIDs").Return([]uint{1, 2, 3}, nil)

	entryRepo := new(MockEntryRepo)
	entryRepo.On("RecomputeRanks", mock.Anything, uint(1)).Return(nil)
	entryRepo.On("RecomputeRanks", mock.Anything, uint(2)).Return(errors.New("lock timeout"))
	entryRepo.On("RecomputeRanks", mock.Anything, uint(3)).Return(nil)

	svc := NewRankService(contestRepo, entryRepo, newFakeCache(), &fakeTxRunner{}, nil)

	results, err := svc.RecomputeAllRanks()
	require.NoError(t, err, "one contest failing must not fail the batch")
	require.Len(t, results, 3)

	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "lock timeout")
	assert.True(t, results[2].OK, "contests after a failure are still processed")
}

func TestRecomputeAllRanks_ListFailure(t *testing.T) {
	contestRepo := new(MockContestRepo)
	contestRepo.On("ListIDs").Return(nil, errors.New("connection refused"))

	svc := NewRankService(contestRepo, new(MockEntryRepo), nil, &fakeTxRunner{}, nil)

	_, err := svc.RecomputeAllRanks()
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestRecomputeAllRanks_NoContests(t *testing.T) {
	contestRepo := new(MockContestRepo)
	contestRepo.On("ListIDs").Return([]uint{}, nil)

	svc := NewRankService(contestRepo, new(MockEntryRepo), nil, &fakeTxRunner{}, nil)

	results, err := svc.RecomputeAllRanks()
	require.NoError(t, err)
	assert.Empty(t, results)
}
