package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func newTestMessageRepository(t *testing.T, db *badger.DB) *MessageRepository {
	t.Helper()
	repository, err := NewMessageRepository(db, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

var fixedTime = time.Date(2024, 3, 1, 21, 5, 9, 0, time.UTC)
