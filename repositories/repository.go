//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks
package repositories

import (
	"chat-presence/domain"
	"context"

	"github.com/google/uuid"
)

// IParticipantRepository stores the active participants.
// Missing records are reported with errors.ErrNotFound, duplicate names with errors.ErrConflict.
type IParticipantRepository interface {
	Insert(ctx context.Context, participant domain.Participant) error
	FindByName(ctx context.Context, name string) (domain.Participant, error)
	List(ctx context.Context) ([]domain.Participant, error)
	Touch(ctx context.Context, name string, lastStatus int64) (bool, error)
	FindStale(ctx context.Context, before int64) ([]domain.Participant, error)
	DeleteStale(ctx context.Context, name string, before int64) (bool, error)
}

// IMessageRepository stores messages in insertion order.
type IMessageRepository interface {
	Insert(ctx context.Context, message domain.Message) (domain.Message, error)
	Find(ctx context.Context, filter MessageFilter) ([]domain.Message, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Message, error)
	Update(ctx context.Context, message domain.Message) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// MessageFilter narrows a Find.
// A nil VisibleTo returns every message, a nil Limit returns the whole history,
// otherwise only the trailing Limit entries are kept.
type MessageFilter struct {
	VisibleTo *string
	Limit     *int
}

func (f MessageFilter) Matches(message domain.Message) bool {
	return f.VisibleTo == nil || message.VisibleTo(*f.VisibleTo)
}

var (
	_ IParticipantRepository = (*ParticipantRepository)(nil)
	_ IMessageRepository     = (*MessageRepository)(nil)
)
