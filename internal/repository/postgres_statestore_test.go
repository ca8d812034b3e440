package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/pkg/models"
)

func TestPostgresStateStore(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	store := NewPostgresStateStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	// EnsureSchema must be safe to run twice.
	require.NoError(t, store.EnsureSchema(ctx))

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Last on empty store", func(t *testing.T) {
		_, err := store.Last(ctx)
		assert.ErrorIs(t, err, ErrNoStates)
	})

	t.Run("Insert and Last", func(t *testing.T) {
		states := []*models.ElevatorState{
			{CurrentFloor: 0, DemandFloor: 3, NextFloor: 5, CallDatetime: base},
			{CurrentFloor: 5, DemandFloor: 3, NextFloor: 1, CallDatetime: base.Add(10 * time.Minute)},
			{CurrentFloor: 1, DemandFloor: 7, NextFloor: 2, CallDatetime: base.Add(25 * time.Minute)},
		}
		for _, state := range states {
			require.NoError(t, store.Insert(ctx, state))
			assert.NotEmpty(t, state.ID, "insert fills a missing id")
		}

		last, err := store.Last(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, last.NextFloor)
		assert.Equal(t, 7, last.DemandFloor)
		assert.True(t, last.CallDatetime.Equal(base.Add(25*time.Minute)))
	})

	t.Run("List window and order", func(t *testing.T) {
		all, err := store.List(ctx, models.StateQuery{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		// Most recent first.
		assert.Equal(t, 7, all[0].DemandFloor)

		from := base.Add(5 * time.Minute)
		to := base.Add(15 * time.Minute)
		window, err := store.List(ctx, models.StateQuery{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, window, 1)
		assert.Equal(t, 1, window[0].NextFloor)

		limited, err := store.List(ctx, models.StateQuery{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("Count", func(t *testing.T) {
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("DemandCounts", func(t *testing.T) {
		counts, err := store.DemandCounts(ctx)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		// Floor 3 was demanded twice and sorts first.
		assert.Equal(t, 3, counts[0].Floor)
		assert.Equal(t, int64(2), counts[0].Count)
	})

	t.Run("CallTimes", func(t *testing.T) {
		times, err := store.CallTimes(ctx, 0)
		require.NoError(t, err)
		require.Len(t, times, 3)
		assert.True(t, times[0].Before(times[1]))
		assert.True(t, times[1].Before(times[2]))

		recent, err := store.CallTimes(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		// The limited window keeps the newest rows, still ascending.
		assert.True(t, recent[0].Equal(base.Add(10*time.Minute)))
		assert.True(t, recent[1].Equal(base.Add(25*time.Minute)))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
