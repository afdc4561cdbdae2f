package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/contest-api/internal/domain/entity"
	"github.com/yourusername/contest-api/internal/domain/repository"
)

// startPostgres brings up a throwaway postgres and returns a gorm handle
// with the leaderboard_entries table migrated. Skips when docker is not
// available.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "contest", "POSTGRES_PASSWORD": "contestpass", "POSTGRES_DB": "contestdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=contest password=contestpass dbname=contestdb sslmode=disable", host, port.Port())
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entity.LeaderboardEntry{}))
	return db
}

func seedEntry(t *testing.T, db *gorm.DB, userID, contestID uint, score int) *entity.LeaderboardEntry {
	t.Helper()
	entry := &entity.LeaderboardEntry{
		UserID:    userID,
		ContestID: contestID,
		Score:     score,
		Answers:   entity.GradedAnswerList{},
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestEntryRepo_RecomputeRanks_OrdersByScoreThenInsertion(t *testing.T) {
	db := startPostgres(t)
	repo := NewEntryRepo(db)

	// Contest 7: two entries tie at 80; the earlier insert must rank higher.
	seedEntry(t, db, 1, 7, 90)
	firstTied := seedEntry(t, db, 2, 7, 80)
	secondTied := seedEntry(t, db, 3, 7, 80)
	seedEntry(t, db, 4, 7, 70)
	// Another contest must be untouched by contest 7's recomputation.
	other := seedEntry(t, db, 1, 8, 100)

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.RecomputeRanks(tx, 7)
	})
	require.NoError(t, err)

	entries, err := repo.GetAllByContest(7)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank, "ranks must be strictly sequential")
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].Score, e.Score, "rank order must match descending score")
		}
	}
	assert.Equal(t, []int{90, 80, 80, 70}, []int{entries[0].Score, entries[1].Score, entries[2].Score, entries[3].Score})
	assert.Equal(t, firstTied.ID, entries[1].ID, "tie must be broken by insertion order")
	assert.Equal(t, secondTied.ID, entries[2].ID)

	var untouched entity.LeaderboardEntry
	require.NoError(t, db.First(&untouched, other.ID).Error)
	assert.Equal(t, 0, untouched.Rank)
}

func TestEntryRepo_RecomputeRanks_RepairsStaleSnapshotRanks(t *testing.T) {
	db := startPostgres(t)
	repo := NewEntryRepo(db)

	// Snapshot ranks recorded at submission time can be stale: the 70-point
	// entry arrived first and still holds rank 1.
	stale := seedEntry(t, db, 1, 3, 70)
	require.NoError(t, db.Model(stale).Update("rank", 1).Error)
	late := seedEntry(t, db, 2, 3, 95)
	require.NoError(t, db.Model(late).Update("rank", 2).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return repo.RecomputeRanks(tx, 3)
	})
	require.NoError(t, err)

	entries, err := repo.GetAllByContest(3)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(1), entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestEntryRepo_Create_SecondInsertForSamePairFails(t *testing.T) {
	db := startPostgres(t)
	repo := NewEntryRepo(db)

	first := &entity.LeaderboardEntry{UserID: 5, ContestID: 9, Score: 40, Answers: entity.GradedAnswerList{}}
	require.NoError(t, repo.Create(first))

	second := &entity.LeaderboardEntry{UserID: 5, ContestID: 9, Score: 60, Answers: entity.GradedAnswerList{}}
	err := repo.Create(second)
	require.ErrorIs(t, err, repository.ErrDuplicateEntry)

	// Same user in a different contest is fine.
	third := &entity.LeaderboardEntry{UserID: 5, ContestID: 10, Score: 60, Answers: entity.GradedAnswerList{}}
	require.NoError(t, repo.Create(third))
}

func TestEntryRepo_CountScoreAtLeast(t *testing.T) {
	db := startPostgres(t)
	repo := NewEntryRepo(db)

	seedEntry(t, db, 1, 2, 90)
	seedEntry(t, db, 2, 2, 80)
	seedEntry(t, db, 3, 2, 70)

	count, err := repo.CountScoreAtLeast(2, 85)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountScoreAtLeast(2, 70)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
