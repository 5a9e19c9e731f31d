package sqlite

import (
	"chat-presence/domain"
	apperrors "chat-presence/errors"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ParticipantRepository relies on the primary key of participants.name
// to reject duplicate joins, including concurrent ones.
type ParticipantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Insert(ctx context.Context, participant domain.Participant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (name, last_status) VALUES (?, ?)`,
		participant.Name, participant.LastStatus)
	if isConstraintError(err) {
		return apperrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) FindByName(ctx context.Context, name string) (domain.Participant, error) {
	var participant domain.Participant
	err := r.db.QueryRowContext(ctx,
		`SELECT name, last_status FROM participants WHERE name = ?`, name).
		Scan(&participant.Name, &participant.LastStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Participant{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("find participant: %w", err)
	}
	return participant, nil
}

func (r *ParticipantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	return r.query(ctx, `SELECT name, last_status FROM participants ORDER BY name`)
}

func (r *ParticipantRepository) Touch(ctx context.Context, name string, lastStatus int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE participants SET last_status = ? WHERE name = ?`, lastStatus, name)
	if err != nil {
		return false, fmt.Errorf("touch participant: %w", err)
	}
	return affected(result)
}

func (r *ParticipantRepository) FindStale(ctx context.Context, before int64) ([]domain.Participant, error) {
	return r.query(ctx,
		`SELECT name, last_status FROM participants WHERE last_status < ? ORDER BY name`, before)
}

// DeleteStale removes the participant only while its last_status is older than before.
func (r *ParticipantRepository) DeleteStale(ctx context.Context, name string, before int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM participants WHERE name = ? AND last_status < ?`, name, before)
	if err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	return affected(result)
}

func (r *ParticipantRepository) query(ctx context.Context, query string, args ...any) ([]domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		var participant domain.Participant
		if err := rows.Scan(&participant.Name, &participant.LastStatus); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
