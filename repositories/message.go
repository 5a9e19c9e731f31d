package repositories

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	MessagePrefix      = "msg:"
	MessageIndexPrefix = "msgid:"
	messageSequenceKey = "seq:messages"
	sequenceBandwidth  = 100
)

type MessageRepository struct {
	db       *badger.DB
	log      *slog.Logger
	sequence *badger.Sequence
}

// NewMessageRepository leases the insertion sequence used to order messages.
// Close must be called to hand the unused part of the lease back.
func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	sequence, err := db.GetSequence([]byte(messageSequenceKey), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, log: log, sequence: sequence}, nil
}

func (r *MessageRepository) Close() error {
	return r.sequence.Release()
}

// messageKey is formatted as "msg:{seq_padded}" so a prefix scan walks
// the messages in insertion order (20 digits cover the whole uint64 range).
func messageKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", MessagePrefix, seq))
}

func messageIndexKey(id uuid.UUID) []byte {
	return []byte(MessageIndexPrefix + id.String())
}

// Insert assigns an identifier when the message has none and stores it after every
// previous message. The "msgid:{uuid}" index points to the ordered key.
func (r *MessageRepository) Insert(ctx context.Context, message domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	seq, err := r.sequence.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("next message sequence: %w", err)
	}
	data, err := encodeMessage(message)
	if err != nil {
		return domain.Message{}, err
	}
	key := messageKey(seq)
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(messageIndexKey(message.ID), key)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// Find walks the messages in insertion order and keeps those matching the filter.
// With a limit the scan runs backwards and stops once the window is full.
func (r *MessageRepository) Find(ctx context.Context, filter MessageFilter) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	messages := []domain.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(MessagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = filter.Limit != nil
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := prefix
		if options.Reverse {
			// Sorts after every "msg:{digits}" key
			seekKey = append([]byte(MessagePrefix), 0xFF)
		}

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if filter.Limit != nil && len(messages) == *filter.Limit {
				break
			}
			var message domain.Message
			err := it.Item().Value(func(val []byte) error {
				var err error
				message, err = DecodeMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			if filter.Matches(message) {
				messages = append(messages, message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if filter.Limit != nil {
		messages = lo.Reverse(messages)
	}
	return messages, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		message, _, err = getMessage(txn, id)
		return err
	})
	return message, err
}

// Update overwrites from, to, text and type in place.
// The stored key, identifier and display time are preserved.
func (r *MessageRepository) Update(ctx context.Context, message domain.Message) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		stored, key, err := getMessage(txn, message.ID)
		if err != nil {
			return err
		}
		stored.From = message.From
		stored.To = message.To
		stored.Text = message.Text
		stored.Type = message.Type
		data, err := encodeMessage(stored)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		key, err := lookupMessageKey(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(messageIndexKey(id))
	})
	if stderrors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func lookupMessageKey(txn *badger.Txn, id uuid.UUID) ([]byte, error) {
	item, err := txn.Get(messageIndexKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func getMessage(txn *badger.Txn, id uuid.UUID) (domain.Message, []byte, error) {
	key, err := lookupMessageKey(txn, id)
	if err != nil {
		return domain.Message{}, nil, err
	}
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, nil, errors.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, nil, err
	}
	var message domain.Message
	err = item.Value(func(val []byte) error {
		message, err = DecodeMessage(val)
		return err
	})
	return message, key, err
}
