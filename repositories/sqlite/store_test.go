package sqlite

import (
	"chat-presence/domain"
	apperrors "chat-presence/errors"
	"chat-presence/repositories"
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestParticipantRepository_Lifecycle(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewParticipantRepository(openTestStore(t))
	now := time.Now()

	// Given two participants, one silent for 30 seconds
	req.NoError(repository.Insert(ctx, domain.NewParticipant("Bob", now)))
	req.NoError(repository.Insert(ctx, domain.NewParticipant("Alice", now.Add(-30*time.Second))))

	// Then a duplicate join is rejected by the primary key
	req.ErrorIs(repository.Insert(ctx, domain.NewParticipant("Bob", now)), apperrors.ErrConflict)

	participants, err := repository.List(ctx)
	req.NoError(err)
	req.Equal([]string{"Alice", "Bob"}, lo.Map(participants, func(p domain.Participant, _ int) string { return p.Name }))

	// When Alice is refreshed nobody is stale anymore
	matched, err := repository.Touch(ctx, "Alice", now.UnixMilli())
	req.NoError(err)
	req.True(matched)
	stale, err := repository.FindStale(ctx, domain.StaleBefore(now, 10*time.Second))
	req.NoError(err)
	req.Empty(stale)

	matched, err = repository.Touch(ctx, "Clara", now.UnixMilli())
	req.NoError(err)
	req.False(matched)

	// A refreshed participant survives a conditional delete
	before := domain.StaleBefore(now, 10*time.Second)
	deleted, err := repository.DeleteStale(ctx, "Alice", before)
	req.NoError(err)
	req.False(deleted)

	deleted, err = repository.DeleteStale(ctx, "Alice", now.Add(time.Second).UnixMilli())
	req.NoError(err)
	req.True(deleted)
	_, err = repository.FindByName(ctx, "Alice")
	req.ErrorIs(err, apperrors.ErrNotFound)
}

func TestParticipantRepository_ConcurrentJoin(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewParticipantRepository(openTestStore(t))

	attempts := 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repository.Insert(ctx, domain.NewParticipant("Alice", time.Now())); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	req.Equal(1, succeeded)
}

func TestMessageRepository_VisibilityAndWindow(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openTestStore(t))

	for i := 1; i <= 3; i++ {
		_, err := repository.Insert(ctx, domain.Message{From: "Alice", To: domain.Broadcast, Text: fmt.Sprintf("public %d", i), Type: domain.PublicMessage, Time: "10:00:00"})
		req.NoError(err)
	}
	_, err := repository.Insert(ctx, domain.Message{From: "Alice", To: "Bob", Text: "secret", Type: domain.PrivateMessage, Time: "10:00:01"})
	req.NoError(err)

	texts := func(filter repositories.MessageFilter) []string {
		messages, err := repository.Find(ctx, filter)
		req.NoError(err)
		return lo.Map(messages, func(m domain.Message, _ int) string { return m.Text })
	}

	req.Equal([]string{"public 1", "public 2", "public 3", "secret"}, texts(repositories.MessageFilter{}))
	req.Equal([]string{"public 1", "public 2", "public 3"}, texts(repositories.MessageFilter{VisibleTo: lo.ToPtr("Clara")}))
	req.Equal([]string{"public 3", "secret"}, texts(repositories.MessageFilter{VisibleTo: lo.ToPtr("Bob"), Limit: lo.ToPtr(2)}))
}

func TestMessageRepository_UpdateAndDelete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openTestStore(t))

	stored, err := repository.Insert(ctx, domain.Message{From: "Alice", To: domain.Broadcast, Text: "hello", Type: domain.PublicMessage, Time: "08:30:00"})
	req.NoError(err)

	matched, err := repository.Update(ctx, domain.Message{ID: stored.ID, From: "Alice", To: "Bob", Text: "hello Bob", Type: domain.PrivateMessage})
	req.NoError(err)
	req.True(matched)

	found, err := repository.FindByID(ctx, stored.ID)
	req.NoError(err)
	req.Equal("hello Bob", found.Text)
	req.Equal(domain.PrivateMessage, found.Type)
	req.Equal("08:30:00", found.Time)

	deleted, err := repository.Delete(ctx, stored.ID)
	req.NoError(err)
	req.True(deleted)

	_, err = repository.FindByID(ctx, stored.ID)
	req.ErrorIs(err, apperrors.ErrNotFound)

	matched, err = repository.Update(ctx, domain.Message{ID: uuid.New()})
	req.NoError(err)
	req.False(matched)
}
