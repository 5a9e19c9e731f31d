package main

import (
	"chat-presence/internal"
	"chat-presence/repositories"
	"chat-presence/repositories/sqlite"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

type store struct {
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	close        func() error
}

func openStore(config internal.Config, log *slog.Logger) (store, error) {
	switch config.StoreDriver {
	case internal.StoreSQLite:
		db, err := sqlite.Open(config.SQLiteFilepath)
		if err != nil {
			return store{}, fmt.Errorf("database opening failed: %w", err)
		}
		return store{
			participants: sqlite.NewParticipantRepository(db),
			messages:     sqlite.NewMessageRepository(db),
			close:        db.Close,
		}, nil
	default:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return store{}, fmt.Errorf("database opening failed: %w", err)
		}
		messages, err := repositories.NewMessageRepository(db, log)
		if err != nil {
			_ = db.Close()
			return store{}, fmt.Errorf("message sequence: %w", err)
		}
		return store{
			participants: repositories.NewParticipantRepository(db, log),
			messages:     messages,
			close: func() error {
				return errors.Join(messages.Close(), db.Close())
			},
		}, nil
	}
}
