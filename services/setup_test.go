package services

import (
	"chat-presence/domain"
	"chat-presence/moderation"
	"chat-presence/repositories"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const staleAfter = 10 * time.Second

// testClock is a manual clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 21, 5, 9, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type room struct {
	participants *ParticipantService
	messages     *MessageService
	clock        *testClock
}

// newRoom wires both services on a fresh badger database.
func newRoom(t *testing.T) room {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	participantRepository := repositories.NewParticipantRepository(db, log)
	messageRepository, err := repositories.NewMessageRepository(db, log)
	req.NoError(err)
	t.Cleanup(func() {
		_ = messageRepository.Close()
		_ = db.Close()
	})

	moderator, err := moderation.NewModerator([]string{"spam"}, '*')
	req.NoError(err)
	clock := newTestClock()
	return room{
		participants: NewParticipantService(participantRepository, messageRepository, clock, staleAfter, log),
		messages:     NewMessageService(participantRepository, messageRepository, moderator, clock, log),
		clock:        clock,
	}
}

var _ domain.Clock = (*testClock)(nil)
