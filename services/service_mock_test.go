package services

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"chat-presence/mocks"
	"chat-presence/moderation"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDiskFull = stderrors.New("disk full")

func TestParticipantService_Join_NoticeFailureStillSucceeds(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	clock := newTestClock()
	service := NewParticipantService(participants, messages, clock, staleAfter, logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given the participant insert works but the notice insert fails
	participants.EXPECT().Insert(gomock.Any(), domain.NewParticipant("Alice", clock.Now())).Return(nil)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(domain.Message{}, errDiskFull)

	// When Alice joins
	participant, err := service.Join(context.Background(), domain.JoinCommand{Name: "Alice"})

	// Then the join is reported as successful
	req.NoError(err)
	req.Equal("Alice", participant.Name)
}

func TestParticipantService_Join_StorageFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	service := NewParticipantService(participants, messages, newTestClock(), staleAfter, logs.GetLoggerFromLevel(slog.LevelDebug))

	participants.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errDiskFull)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.Join(context.Background(), domain.JoinCommand{Name: "Alice"})
	req.ErrorIs(err, errors.ErrStorage)
	req.NotErrorIs(err, errDiskFull)
}

func TestParticipantService_Sweep_ContinuesAfterFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	clock := newTestClock()
	service := NewParticipantService(participants, messages, clock, staleAfter, logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given two stale participants where the leave notice of the first cannot be stored
	before := domain.StaleBefore(clock.Now(), staleAfter)
	participants.EXPECT().FindStale(gomock.Any(), before).Return([]domain.Participant{
		{Name: "Alice", LastStatus: before - 1},
		{Name: "Bob", LastStatus: before - 1},
	}, nil)
	messages.EXPECT().Insert(gomock.Any(), gomock.Cond(func(m domain.Message) bool { return m.From == "Alice" })).
		Return(domain.Message{}, errDiskFull)
	messages.EXPECT().Insert(gomock.Any(), domain.NewStatusMessage("Bob", domain.LeaveNotice, clock.Now())).
		Return(domain.Message{}, nil)
	participants.EXPECT().DeleteStale(gomock.Any(), "Bob", before).Return(true, nil)
	participants.EXPECT().DeleteStale(gomock.Any(), "Alice", gomock.Any()).Times(0)

	// When the sweep runs
	evicted, err := service.Sweep(context.Background())

	// Then Bob is evicted and the failure on Alice is reported
	req.Equal(1, evicted)
	req.ErrorIs(err, errors.ErrStorage)
	req.ErrorContains(err, "evict Alice")
}

func TestParticipantService_Sweep_SkipsRefreshedParticipant(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	clock := newTestClock()
	service := NewParticipantService(participants, messages, clock, staleAfter, logs.GetLoggerFromLevel(slog.LevelDebug))

	// Given Alice was found stale but sent a heartbeat before the delete
	before := domain.StaleBefore(clock.Now(), staleAfter)
	participants.EXPECT().FindStale(gomock.Any(), before).Return([]domain.Participant{{Name: "Alice", LastStatus: before - 1}}, nil)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(domain.Message{}, nil)
	participants.EXPECT().DeleteStale(gomock.Any(), "Alice", before).Return(false, nil)

	// When the sweep runs
	evicted, err := service.Sweep(context.Background())

	// Then nobody is counted as evicted and no error is reported
	req.NoError(err)
	req.Zero(evicted)
}

func TestParticipantService_Heartbeat_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	service := NewParticipantService(participants, mocks.NewMockIMessageRepository(ctrl), newTestClock(), staleAfter, logs.GetLoggerFromLevel(slog.LevelDebug))

	participants.EXPECT().Touch(gomock.Any(), "Alice", gomock.Any()).Return(false, errDiskFull)

	err := service.Heartbeat(context.Background(), domain.HeartbeatCommand{Identity: "Alice"})
	require.ErrorIs(t, err, errors.ErrStorage)
}

func TestMessageService_PostMessage_InactiveSenderStoresNothing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	participants := mocks.NewMockIParticipantRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	moderator, err := moderation.NewModerator(nil, '*')
	req.NoError(err)
	service := NewMessageService(participants, messages, moderator, newTestClock(), logs.GetLoggerFromLevel(slog.LevelDebug))

	participants.EXPECT().FindByName(gomock.Any(), "Ghost").Return(domain.Participant{}, errors.ErrNotFound)
	messages.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

	_, err = service.PostMessage(context.Background(), domain.PostMessageCommand{
		Identity: "Ghost", To: domain.Broadcast, Text: "boo", Type: domain.PublicMessage,
	})
	req.ErrorIs(err, errors.ErrUnprocessableState)
}

func TestMessageService_ListVisible_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	service := NewMessageService(mocks.NewMockIParticipantRepository(ctrl), messages, nil, newTestClock(), logs.GetLoggerFromLevel(slog.LevelDebug))

	messages.EXPECT().Find(gomock.Any(), gomock.Any()).Return(nil, errDiskFull)

	_, err := service.ListVisible(context.Background(), domain.ListMessagesCommand{Identity: "Alice"})
	require.ErrorIs(t, err, errors.ErrStorage)
}

func TestMessageService_DeleteMessage_StorageFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockIMessageRepository(ctrl)
	service := NewMessageService(mocks.NewMockIParticipantRepository(ctrl), messages, nil, newTestClock(), logs.GetLoggerFromLevel(slog.LevelDebug))

	message := domain.Message{ID: uuid.New(), From: "Alice", To: domain.Broadcast, Text: "hi", Type: domain.PublicMessage}
	messages.EXPECT().FindByID(gomock.Any(), message.ID).Return(message, nil)
	messages.EXPECT().Delete(gomock.Any(), message.ID).Return(false, errDiskFull)

	err := service.DeleteMessage(context.Background(), domain.DeleteMessageCommand{ID: message.ID.String(), Identity: "Alice"})
	req.ErrorIs(err, errors.ErrStorage)
}
