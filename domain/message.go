// Package domain contains core concepts of the chat room.
// This file defines Message events and the visibility rules.
package domain

import (
	"github.com/google/uuid"
	"time"
)

type MessageType string

const (
	PublicMessage  MessageType = "message"
	PrivateMessage MessageType = "private_message"
	StatusMessage  MessageType = "status"
)

const (
	// Broadcast is the reserved recipient meaning every participant.
	Broadcast   = "Todos"
	JoinNotice  = "entra na sala..."
	LeaveNotice = "sai da sala..."
)

// Message is a stored chat entry.
// Time is display-only and never used for ordering, the store keeps insertion order.
type Message struct {
	ID   uuid.UUID
	From string
	To   string
	Text string
	Type MessageType
	Time string
}

// NewStatusMessage builds a join or leave notice sent on behalf of name.
func NewStatusMessage(name, text string, at time.Time) Message {
	return Message{
		From: name,
		To:   Broadcast,
		Text: text,
		Type: StatusMessage,
		Time: DisplayTime(at),
	}
}

// VisibleTo reports whether identity may read the message:
// public chatter, broadcasts, and private messages sent to or by identity.
func (m Message) VisibleTo(identity string) bool {
	return m.Type == PublicMessage ||
		m.To == Broadcast ||
		m.To == identity ||
		m.From == identity
}

func (m Message) OwnedBy(identity string) bool {
	return m.From == identity
}

// IsUserType reports whether t can be submitted by a participant.
func (t MessageType) IsUserType() bool {
	return t == PublicMessage || t == PrivateMessage
}
