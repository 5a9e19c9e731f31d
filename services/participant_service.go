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
	"strings"
	"time"
)

type IParticipantService interface {
	Join(ctx context.Context, cmd domain.JoinCommand) (domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	Heartbeat(ctx context.Context, cmd domain.HeartbeatCommand) error
	Sweep(ctx context.Context) (int, error)
}

// ParticipantService is the participant registry.
// It keeps no state of its own: every call reads and writes the repositories.
type ParticipantService struct {
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	clock        domain.Clock
	staleAfter   time.Duration
	log          *slog.Logger
}

func NewParticipantService(
	participants repositories.IParticipantRepository,
	messages repositories.IMessageRepository,
	clock domain.Clock,
	staleAfter time.Duration,
	log *slog.Logger,
) *ParticipantService {
	return &ParticipantService{
		participants: participants,
		messages:     messages,
		clock:        clock,
		staleAfter:   staleAfter,
		log:          log,
	}
}

// Join registers a new participant and announces it to the room.
// The announcement is best-effort: once the participant is stored the join
// succeeds even if the notice cannot be written.
func (s *ParticipantService) Join(ctx context.Context, cmd domain.JoinCommand) (domain.Participant, error) {
	name, err := validation.ValidateJoin(cmd.Name)
	if err != nil {
		return domain.Participant{}, err
	}

	now := s.clock.Now()
	participant := domain.NewParticipant(name, now)
	if err = s.participants.Insert(ctx, participant); err != nil {
		if stderrors.Is(err, errors.ErrConflict) {
			return domain.Participant{}, fmt.Errorf("%w: %s", errors.ErrConflict, name)
		}
		return domain.Participant{}, storageFailure(err)
	}

	if _, err = s.messages.Insert(ctx, domain.NewStatusMessage(name, domain.JoinNotice, now)); err != nil {
		s.log.Warn("Join notice not stored", "name", name, "error", err)
	}
	s.log.Info("Participant joined", "name", name)
	return participant, nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	participants, err := s.participants.List(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	return participants, nil
}

// Heartbeat refreshes the liveness of an active participant. It never creates one.
func (s *ParticipantService) Heartbeat(ctx context.Context, cmd domain.HeartbeatCommand) error {
	if strings.TrimSpace(cmd.Identity) == "" {
		return fmt.Errorf("%w: missing identity", errors.ErrNotFound)
	}
	matched, err := s.participants.Touch(ctx, cmd.Identity, s.clock.Now().UnixMilli())
	if err != nil {
		return storageFailure(err)
	}
	if !matched {
		return fmt.Errorf("%w: participant %s", errors.ErrNotFound, cmd.Identity)
	}
	return nil
}

// Sweep evicts every participant whose last heartbeat is older than the staleness threshold.
// Each participant gets a leave notice then its record is removed. A failure on one
// participant is logged and reported without stopping the others; it stays in place
// and is retried on the next sweep.
func (s *ParticipantService) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	before := domain.StaleBefore(now, s.staleAfter)
	stale, err := s.participants.FindStale(ctx, before)
	if err != nil {
		return 0, storageFailure(err)
	}

	var (
		evicted int
		errs    []error
	)
	for _, participant := range stale {
		deleted, err := s.evict(ctx, participant, before, now)
		if err != nil {
			s.log.Error("Eviction failed", "name", participant.Name, "error", err)
			errs = append(errs, fmt.Errorf("evict %s: %w", participant.Name, err))
			continue
		}
		if deleted {
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Info("Stale participants evicted", "count", evicted)
	}
	return evicted, stderrors.Join(errs...)
}

// evict announces the departure then removes the participant, unless a heartbeat
// refreshed it since it was found stale.
func (s *ParticipantService) evict(ctx context.Context, participant domain.Participant, before int64, now time.Time) (bool, error) {
	if _, err := s.messages.Insert(ctx, domain.NewStatusMessage(participant.Name, domain.LeaveNotice, now)); err != nil {
		return false, storageFailure(err)
	}
	deleted, err := s.participants.DeleteStale(ctx, participant.Name, before)
	if err != nil {
		return false, storageFailure(err)
	}
	if !deleted {
		s.log.Warn("Participant refreshed or gone before eviction", "name", participant.Name)
	}
	return deleted, nil
}
