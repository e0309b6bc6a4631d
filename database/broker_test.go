package database

import (
	"context"
	"everywrite/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

// nextMatching reads from ch until a result satisfies ok.
func nextMatching(t *testing.T, ch <-chan []models.Note, ok func([]models.Note) bool) []models.Note {
	t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case notes, open := <-ch:
			require.True(t, open, "live channel closed early")
			if ok(notes) {
				return notes
			}
		case <-deadline:
			t.Fatal("timed out waiting for live result")
			return nil
		}
	}
}

func TestBrokerPublishDoesNotBlock(t *testing.T) {
	b := NewBroker()
	signal, stop := b.Listen(TableNotes)
	defer stop()

	for i := 0; i < 100; i++ {
		b.Publish(TableNotes)
	}

	select {
	case <-signal:
	default:
		t.Fatal("expected a pending signal")
	}

	select {
	case <-signal:
		t.Fatal("signals should coalesce into one")
	default:
	}
}

func TestBrokerTablesAreIndependent(t *testing.T) {
	b := NewBroker()
	signal, stop := b.Listen(TableUsers)
	defer stop()

	b.Publish(TableNotes)

	select {
	case <-signal:
		t.Fatal("users listener should not see notes changes")
	default:
	}
}

func TestBrokerCloseClosesListeners(t *testing.T) {
	b := NewBroker()
	signal, stop := b.Listen(TableNotes)
	b.Close()

	_, open := <-signal
	assert.False(t, open)
	stop()
	assert.Zero(t, b.Listeners(TableNotes))
}

func TestWatchActiveNotes(t *testing.T) {
	repo := setupTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live, err := repo.WatchActiveNotes(ctx)
	require.NoError(t, err)

	first := nextMatching(t, live, func(n []models.Note) bool { return true })
	assert.Empty(t, first)

	note := newNote("hello", "", 1)
	require.NoError(t, repo.UpsertNote(context.Background(), note))
	got := nextMatching(t, live, func(n []models.Note) bool { return len(n) == 1 })
	assert.Equal(t, note.ID, got[0].ID)

	require.NoError(t, repo.UpdateArchiveStatus(context.Background(), note.ID, true))
	nextMatching(t, live, func(n []models.Note) bool { return len(n) == 0 })
}

func TestWatchArchivedAndSearch(t *testing.T) {
	repo := setupTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	archived, err := repo.WatchArchivedNotes(ctx)
	require.NoError(t, err)
	search, err := repo.WatchSearch(ctx, "milk")
	require.NoError(t, err)

	note := newNote("Shopping", "buy MILK", 1)
	note.IsArchived = true
	require.NoError(t, repo.UpsertNote(context.Background(), note))

	gotArchived := nextMatching(t, archived, func(n []models.Note) bool { return len(n) == 1 })
	assert.Equal(t, note.ID, gotArchived[0].ID)

	gotSearch := nextMatching(t, search, func(n []models.Note) bool { return len(n) == 1 })
	assert.Equal(t, note.ID, gotSearch[0].ID)

	_, err = repo.DeleteAllArchived(context.Background())
	require.NoError(t, err)
	nextMatching(t, archived, func(n []models.Note) bool { return len(n) == 0 })
	nextMatching(t, search, func(n []models.Note) bool { return len(n) == 0 })
}

func TestWatchDeliversLatestToSlowSubscriber(t *testing.T) {
	repo := setupTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live, err := repo.WatchActiveNotes(ctx)
	require.NoError(t, err)

	// Several writes before anything is read
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.UpsertNote(context.Background(), newNote("n", "", int64(i))))
	}

	got := nextMatching(t, live, func(n []models.Note) bool { return len(n) == 5 })
	assert.Len(t, got, 5)
}

func TestWatchStopsOnCancel(t *testing.T) {
	repo := setupTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())

	live, err := repo.WatchActiveNotes(ctx)
	require.NoError(t, err)
	<-live

	cancel()

	deadline := time.After(waitFor)
	for {
		select {
		case _, open := <-live:
			if !open {
				assert.Eventually(t, func() bool {
					return repo.DB().Broker().Listeners(TableNotes) == 0
				}, waitFor, 10*time.Millisecond)
				return
			}
		case <-deadline:
			t.Fatal("live channel was not closed after cancel")
		}
	}
}
