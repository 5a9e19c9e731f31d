package repositories

import (
	"chat-presence/domain"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Records are stored as protobuf Struct messages so the on-disk format stays
// self-describing for tools reading the database directly.

func encodeParticipant(p domain.Participant) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]any{
		"name":       p.Name,
		"lastStatus": p.LastStatus,
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(record)
}

func DecodeParticipant(data []byte) (domain.Participant, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(data, &record); err != nil {
		return domain.Participant{}, fmt.Errorf("unmarshal participant: %w", err)
	}
	fields := record.GetFields()
	return domain.Participant{
		Name:       fields["name"].GetStringValue(),
		LastStatus: int64(fields["lastStatus"].GetNumberValue()),
	}, nil
}

func encodeMessage(m domain.Message) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]any{
		"_id":  m.ID.String(),
		"from": m.From,
		"to":   m.To,
		"text": m.Text,
		"type": string(m.Type),
		"time": m.Time,
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(record)
}

func DecodeMessage(data []byte) (domain.Message, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(data, &record); err != nil {
		return domain.Message{}, fmt.Errorf("unmarshal message: %w", err)
	}
	fields := record.GetFields()
	id, err := uuid.Parse(fields["_id"].GetStringValue())
	if err != nil {
		return domain.Message{}, fmt.Errorf("parse message id: %w", err)
	}
	return domain.Message{
		ID:   id,
		From: fields["from"].GetStringValue(),
		To:   fields["to"].GetStringValue(),
		Text: fields["text"].GetStringValue(),
		Type: domain.MessageType(fields["type"].GetStringValue()),
		Time: fields["time"].GetStringValue(),
	}, nil
}
