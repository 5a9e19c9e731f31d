package services

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"chat-presence/repositories"
	"chat-presence/validation"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type IMessageService interface {
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	ListVisible(ctx context.Context, cmd domain.ListMessagesCommand) ([]domain.Message, error)
	EditMessage(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error)
	DeleteMessage(ctx context.Context, cmd domain.DeleteMessageCommand) error
}

// TextModerator rewrites user supplied text before it is stored.
type TextModerator interface {
	Censor(text string) string
}

// MessageService owns message ingestion and the visibility and ownership rules.
type MessageService struct {
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	moderator    TextModerator
	clock        domain.Clock
	log          *slog.Logger
}

func NewMessageService(
	participants repositories.IParticipantRepository,
	messages repositories.IMessageRepository,
	moderator TextModerator,
	clock domain.Clock,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		participants: participants,
		messages:     messages,
		moderator:    moderator,
		clock:        clock,
		log:          log,
	}
}

// PostMessage stores a public or private message from an active participant.
// A sender that is not present in the room gets ErrUnprocessableState and nothing is stored.
func (s *MessageService) PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	err := validation.ValidateMessage(validation.MessageRequest{
		From: cmd.Identity,
		To:   cmd.To,
		Text: cmd.Text,
		Type: string(cmd.Type),
	})
	if err != nil {
		return domain.Message{}, err
	}
	if err = s.requireActive(ctx, cmd.Identity); err != nil {
		return domain.Message{}, err
	}

	message, err := s.messages.Insert(ctx, domain.Message{
		From: cmd.Identity,
		To:   cmd.To,
		Text: s.moderator.Censor(cmd.Text),
		Type: cmd.Type,
		Time: domain.DisplayTime(s.clock.Now()),
	})
	if err != nil {
		return domain.Message{}, storageFailure(err)
	}
	s.log.Debug("Message stored", "id", message.ID, "from", message.From, "type", message.Type)
	return message, nil
}

// ListVisible returns, in insertion order, the messages the identity is allowed to read.
// A nil limit returns the whole history, otherwise the limit must be positive.
func (s *MessageService) ListVisible(ctx context.Context, cmd domain.ListMessagesCommand) ([]domain.Message, error) {
	if err := validation.ValidateLimit(cmd.Limit); err != nil {
		return nil, err
	}
	identity := cmd.Identity
	messages, err := s.messages.Find(ctx, repositories.MessageFilter{
		VisibleTo: &identity,
		Limit:     cmd.Limit,
	})
	if err != nil {
		return nil, storageFailure(err)
	}
	return messages, nil
}

// EditMessage replaces the content of a message owned by an active participant.
// Identifier and display time are kept.
func (s *MessageService) EditMessage(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error) {
	err := validation.ValidateMessage(validation.MessageRequest{
		From: cmd.Identity,
		To:   cmd.To,
		Text: cmd.Text,
		Type: string(cmd.Type),
	})
	if err != nil {
		return domain.Message{}, err
	}
	if err = s.requireActive(ctx, cmd.Identity); err != nil {
		return domain.Message{}, err
	}
	message, err := s.ownedMessage(ctx, cmd.ID, cmd.Identity)
	if err != nil {
		return domain.Message{}, err
	}

	message.From = cmd.Identity
	message.To = cmd.To
	message.Text = s.moderator.Censor(cmd.Text)
	message.Type = cmd.Type
	matched, err := s.messages.Update(ctx, message)
	if err != nil {
		return domain.Message{}, storageFailure(err)
	}
	if !matched {
		return domain.Message{}, fmt.Errorf("%w: message %s", errors.ErrNotFound, cmd.ID)
	}
	return message, nil
}

func (s *MessageService) DeleteMessage(ctx context.Context, cmd domain.DeleteMessageCommand) error {
	message, err := s.ownedMessage(ctx, cmd.ID, cmd.Identity)
	if err != nil {
		return err
	}
	deleted, err := s.messages.Delete(ctx, message.ID)
	if err != nil {
		return storageFailure(err)
	}
	if !deleted {
		return fmt.Errorf("%w: message %s", errors.ErrNotFound, cmd.ID)
	}
	s.log.Debug("Message deleted", "id", message.ID, "by", cmd.Identity)
	return nil
}

// ownedMessage loads a message and checks that identity sent it.
// An identifier that is not a UUID cannot match any stored message.
func (s *MessageService) ownedMessage(ctx context.Context, rawID, identity string) (domain.Message, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: message %s", errors.ErrNotFound, rawID)
	}
	message, err := s.messages.FindByID(ctx, id)
	if stderrors.Is(err, errors.ErrNotFound) {
		return domain.Message{}, fmt.Errorf("%w: message %s", errors.ErrNotFound, rawID)
	}
	if err != nil {
		return domain.Message{}, storageFailure(err)
	}
	if !message.OwnedBy(identity) {
		return domain.Message{}, fmt.Errorf("%w: message %s does not belong to %s", errors.ErrForbidden, rawID, identity)
	}
	return message, nil
}

func (s *MessageService) requireActive(ctx context.Context, identity string) error {
	_, err := s.participants.FindByName(ctx, identity)
	if stderrors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("%w: %s is not an active participant", errors.ErrUnprocessableState, identity)
	}
	if err != nil {
		return storageFailure(err)
	}
	return nil
}
