package repository

import (
	"context"
	"sync"
	"testing"

	"shirokane/domain/entities"
	"shirokane/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProgressRepository_GetOrCreate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserProgressRepository(testDB.DB)
	ctx := context.Background()

	progress, err := repo.GetOrCreate(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, int64(111), progress.DiscordID)
	assert.Equal(t, int64(0), progress.XP)
	assert.Equal(t, 0, progress.Level)
	assert.False(t, progress.CreatedAt.IsZero())

	// Second call returns the same row, not a reset one.
	_, err = repo.AddXP(ctx, 111, 50)
	require.NoError(t, err)

	again, err := repo.GetOrCreate(ctx, 111)
	require.NoError(t, err)
	assert.Equal(t, int64(50), again.XP)
	assert.Equal(t, progress.CreatedAt, again.CreatedAt)
}

func TestUserProgressRepository_AddXP(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserProgressRepository(testDB.DB)
	ctx := context.Background()

	// First grant creates the row implicitly.
	progress, err := repo.AddXP(ctx, 222, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(20), progress.XP)
	assert.Equal(t, 0, progress.Level)

	// Crossing the level 1 threshold updates the stored level.
	progress, err = repo.AddXP(ctx, 222, 85)
	require.NoError(t, err)
	assert.Equal(t, int64(105), progress.XP)
	assert.Equal(t, 1, progress.Level)

	// A large grant jumps several levels at once.
	progress, err = repo.AddXP(ctx, 222, 2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2605), progress.XP)
	assert.Equal(t, 5, progress.Level)
}

func TestUserProgressRepository_AddXP_Concurrent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserProgressRepository(testDB.DB)
	ctx := context.Background()

	// Two concurrent grants must both land; a lost update would leave
	// 5 or 7 instead of 12.
	amounts := []int64{5, 7}
	var wg sync.WaitGroup
	errs := make([]error, len(amounts))
	for i, amount := range amounts {
		wg.Add(1)
		go func(i int, amount int64) {
			defer wg.Done()
			_, errs[i] = repo.AddXP(ctx, 333, amount)
		}(i, amount)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	progress, err := repo.GetOrCreate(ctx, 333)
	require.NoError(t, err)
	assert.Equal(t, int64(12), progress.XP)
}

func TestUserProgressRepository_AddXP_ConcurrentAcrossThreshold(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserProgressRepository(testDB.DB)
	ctx := context.Background()

	// 10 grants of 15 xp each; the final row must hold the exact sum
	// and the level derived from it.
	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.AddXP(ctx, 444, 15)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	progress, err := repo.GetOrCreate(ctx, 444)
	require.NoError(t, err)
	assert.Equal(t, int64(150), progress.XP)
	assert.Equal(t, 1, progress.Level)
}

func TestUserProgressRepository_SetLevel(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserProgressRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.AddXP(ctx, 555, 250)
	require.NoError(t, err)

	progress, err := repo.SetLevel(ctx, 555, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, progress.Level)
	assert.Equal(t, entities.Threshold(10), progress.XP)

	// Setting a lower level discards the surplus xp too.
	progress, err = repo.SetLevel(ctx, 555, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, int64(100), progress.XP)

	// Works on users that have no row yet.
	progress, err = repo.SetLevel(ctx, 556, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.Level)
	assert.Equal(t, int64(900), progress.XP)
}

func TestUserProgressRepository_Top(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserProgressRepository(testDB.DB)
	ctx := context.Background()

	seed := map[int64]int64{
		1: 300,
		2: 1200,
		3: 50,
		4: 700,
	}
	for id, xp := range seed {
		_, err := repo.AddXP(ctx, id, xp)
		require.NoError(t, err)
	}

	top, err := repo.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, int64(2), top[0].DiscordID)
	assert.Equal(t, int64(4), top[1].DiscordID)
	assert.Equal(t, int64(1), top[2].DiscordID)

	// Asking for more than exists returns everyone.
	all, err := repo.Top(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
