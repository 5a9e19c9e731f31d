package repositories

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const (
	ParticipantPrefix  = "participant:"
	maxConflictRetries = 3
)

type ParticipantRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewParticipantRepository(db *badger.DB, log *slog.Logger) *ParticipantRepository {
	return &ParticipantRepository{db: db, log: log}
}

func participantKey(name string) []byte {
	return []byte(ParticipantPrefix + name)
}

// Insert persists a new participant under "participant:{name}".
// The existence check and the write share one transaction: a concurrent join
// for the same name fails the commit with badger.ErrConflict, reported as errors.ErrConflict.
func (r *ParticipantRepository) Insert(ctx context.Context, participant domain.Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeParticipant(participant)
	if err != nil {
		return err
	}
	key := participantKey(participant.Name)
	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return errors.ErrConflict
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		r.log.Debug("Concurrent join detected", "name", participant.Name)
		return errors.ErrConflict
	}
	return err
}

func (r *ParticipantRepository) FindByName(ctx context.Context, name string) (domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Participant{}, err
	}
	var participant domain.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		participant, err = getParticipant(txn, name)
		return err
	})
	return participant, err
}

// List returns every participant, ordered by name thanks to the key layout.
func (r *ParticipantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	return r.scan(ctx, func(domain.Participant) bool { return true })
}

// Touch refreshes LastStatus. It reports false when no participant matched.
// A commit conflicting with a concurrent eviction is retried, the retry then
// sees the participant gone or still present.
func (r *ParticipantRepository) Touch(ctx context.Context, name string, lastStatus int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = r.touch(name, lastStatus)
		if !stderrors.Is(err, badger.ErrConflict) {
			break
		}
		r.log.Debug("Heartbeat conflicted, retrying", "name", name, "attempt", attempt+1)
	}
	if stderrors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *ParticipantRepository) touch(name string, lastStatus int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		participant, err := getParticipant(txn, name)
		if err != nil {
			return err
		}
		participant.LastStatus = lastStatus
		data, err := encodeParticipant(participant)
		if err != nil {
			return err
		}
		return txn.Set(participantKey(name), data)
	})
}

// FindStale returns the participants whose LastStatus is strictly older than before.
func (r *ParticipantRepository) FindStale(ctx context.Context, before int64) ([]domain.Participant, error) {
	return r.scan(ctx, func(p domain.Participant) bool { return p.LastStatus < before })
}

// DeleteStale removes the participant only if its LastStatus is still older than before.
// It reports false when the participant is gone or was refreshed in the meantime,
// including a refresh racing the delete itself.
func (r *ParticipantRepository) DeleteStale(ctx context.Context, name string, before int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	deleted := false
	err := r.db.Update(func(txn *badger.Txn) error {
		participant, err := getParticipant(txn, name)
		if err != nil {
			return err
		}
		if participant.LastStatus >= before {
			return nil
		}
		deleted = true
		return txn.Delete(participantKey(name))
	})
	if stderrors.Is(err, errors.ErrNotFound) || stderrors.Is(err, badger.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *ParticipantRepository) scan(ctx context.Context, keep func(domain.Participant) bool) ([]domain.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	participants := []domain.Participant{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(ParticipantPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var participant domain.Participant
			err := it.Item().Value(func(val []byte) error {
				var err error
				participant, err = DecodeParticipant(val)
				return err
			})
			if err != nil {
				return err
			}
			if keep(participant) {
				participants = append(participants, participant)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

func getParticipant(txn *badger.Txn, name string) (domain.Participant, error) {
	item, err := txn.Get(participantKey(name))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Participant{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Participant{}, err
	}
	var participant domain.Participant
	err = item.Value(func(val []byte) error {
		participant, err = DecodeParticipant(val)
		return err
	})
	return participant, err
}
