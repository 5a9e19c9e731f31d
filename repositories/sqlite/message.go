package sqlite

import (
	"chat-presence/domain"
	apperrors "chat-presence/errors"
	"chat-presence/repositories"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const messageColumns = `id, sender, recipient, body, type, display_time`

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Insert(ctx context.Context, message domain.Message) (domain.Message, error) {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		message.ID.String(), message.From, message.To, message.Text, string(message.Type), message.Time)
	if err != nil {
		return domain.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return message, nil
}

// Find mirrors the visibility rule in SQL. A limit keeps the trailing window:
// the newest rows are selected first then put back in insertion order.
func (r *MessageRepository) Find(ctx context.Context, filter repositories.MessageFilter) ([]domain.Message, error) {
	var (
		where strings.Builder
		args  []any
	)
	if filter.VisibleTo != nil {
		where.WriteString(` WHERE type = ? OR recipient = ? OR recipient = ? OR sender = ?`)
		args = append(args, string(domain.PublicMessage), domain.Broadcast, *filter.VisibleTo, *filter.VisibleTo)
	}

	query := `SELECT seq, ` + messageColumns + ` FROM messages` + where.String() + ` ORDER BY seq`
	if filter.Limit != nil {
		query = `SELECT * FROM (SELECT seq, ` + messageColumns + ` FROM messages` + where.String() +
			` ORDER BY seq DESC LIMIT ?) ORDER BY seq`
		args = append(args, *filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var seq int64
		message, err := scanMessage(rows, &seq)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT seq, `+messageColumns+` FROM messages WHERE id = ?`, id.String())
	var seq int64
	message, err := scanMessage(row, &seq)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, apperrors.ErrNotFound
	}
	return message, err
}

// Update rewrites the mutable columns. seq, id and display_time stay untouched.
func (r *MessageRepository) Update(ctx context.Context, message domain.Message) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET sender = ?, recipient = ?, body = ?, type = ? WHERE id = ?`,
		message.From, message.To, message.Text, string(message.Type), message.ID.String())
	if err != nil {
		return false, fmt.Errorf("update message: %w", err)
	}
	return affected(result)
}

func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	return affected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner, seq *int64) (domain.Message, error) {
	var (
		message     domain.Message
		id          string
		messageType string
	)
	err := row.Scan(seq, &id, &message.From, &message.To, &message.Text, &messageType, &message.Time)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, err
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("scan message: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("parse message id: %w", err)
	}
	message.ID = parsed
	message.Type = domain.MessageType(messageType)
	return message, nil
}

var (
	_ repositories.IParticipantRepository = (*ParticipantRepository)(nil)
	_ repositories.IMessageRepository     = (*MessageRepository)(nil)
)
