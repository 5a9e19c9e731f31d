// Package domain contains core concepts of the chat room.
// This file defines Participant entities and the liveness rule.
// No storage, network, or scheduling logic should be added here.
package domain

import "time"

// Participant is an active member of the room.
// LastStatus holds the epoch milliseconds of the last liveness signal.
type Participant struct {
	Name       string
	LastStatus int64
}

func NewParticipant(name string, now time.Time) Participant {
	return Participant{Name: name, LastStatus: now.UnixMilli()}
}

// StaleBefore returns the epoch milliseconds under which a LastStatus is considered stale.
func StaleBefore(now time.Time, staleAfter time.Duration) int64 {
	return now.Add(-staleAfter).UnixMilli()
}

// IsStale reports whether the participant missed its heartbeat window at now.
func (p Participant) IsStale(now time.Time, staleAfter time.Duration) bool {
	return p.LastStatus < StaleBefore(now, staleAfter)
}
