package state

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainbolt/backend/internal/database"
	"github.com/brainbolt/backend/internal/models"
)

func newRedisStore(t *testing.T) Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "test")
}

func newPostgresStore(t *testing.T) Store {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	_, err = db.Exec(`DELETE FROM adaptive_states`)
	require.NoError(t, err)
	return NewPostgres(db)
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory":   func(*testing.T) Store { return NewMemory() },
		"redis":    newRedisStore,
		"postgres": newPostgresStore,
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("load unknown returns defaults", func(t *testing.T) {
				testLoadDefaults(t, newStore(t))
			})
			t.Run("swap increments version", func(t *testing.T) {
				testSwapSequence(t, newStore(t))
			})
			t.Run("stale swap conflicts", func(t *testing.T) {
				testStaleSwap(t, newStore(t))
			})
			t.Run("concurrent swaps have one winner", func(t *testing.T) {
				testConcurrentSwaps(t, newStore(t))
			})
		})
	}
}

func testLoadDefaults(t *testing.T, s Store) {
	st, v, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.Equal(t, models.NewAdaptiveState(), st)
}

func testSwapSequence(t *testing.T, s Store) {
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	next := models.NewAdaptiveState()
	next.Streak, next.MaxStreak, next.TotalScore = 1, 1, 12.5
	next.PushOutcome(true)
	next.MarkAnswered("1")
	next.LastItemID = "1"
	next.LastAnswerAt = &at

	v, err := s.CompareAndSwap(ctx, "alice", 0, next)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	got, v, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Equal(t, next.TotalScore, got.TotalScore)
	assert.Equal(t, next.RecentOutcomes, got.RecentOutcomes)
	assert.Equal(t, next.AnsweredItemIDs, got.AnsweredItemIDs)
	require.NotNil(t, got.LastAnswerAt)
	assert.True(t, at.Equal(*got.LastAnswerAt))

	got.Streak = 2
	v, err = s.CompareAndSwap(ctx, "alice", 1, got)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func testStaleSwap(t *testing.T, s Store) {
	ctx := context.Background()
	_, err := s.CompareAndSwap(ctx, "alice", 0, models.NewAdaptiveState())
	require.NoError(t, err)

	changed := models.NewAdaptiveState()
	changed.Streak = 9
	_, err = s.CompareAndSwap(ctx, "alice", 0, changed)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(1), conflict.Current)
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, v, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Zero(t, got.Streak)

	// Skipping ahead is a conflict too.
	_, err = s.CompareAndSwap(ctx, "alice", 5, changed)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func testConcurrentSwaps(t *testing.T, s Store) {
	ctx := context.Background()
	const writers = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			next := models.NewAdaptiveState()
			next.Streak = i
			_, err := s.CompareAndSwap(ctx, "race", 0, next)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrVersionConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflicts)

	_, v, err := s.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestMemoryLoadIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	st := models.NewAdaptiveState()
	st.PushOutcome(true)
	_, err := m.CompareAndSwap(ctx, "alice", 0, st)
	require.NoError(t, err)

	st.RecentOutcomes[0] = false
	got, _, _ := m.Load(ctx, "alice")
	got.RecentOutcomes = append(got.RecentOutcomes, false)

	again, _, _ := m.Load(ctx, "alice")
	assert.Equal(t, []bool{true}, again.RecentOutcomes)
}
