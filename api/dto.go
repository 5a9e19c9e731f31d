package api

import "chat-presence/domain"

// Wire names follow the historical JSON format of the room.

type joinRequest struct {
	Name string `json:"name"`
}

type participantResponse struct {
	Name       string `json:"name"`
	LastStatus int64  `json:"lastStatus"`
}

type messageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type messageResponse struct {
	ID   string `json:"_id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

func toParticipantResponse(p domain.Participant) participantResponse {
	return participantResponse{Name: p.Name, LastStatus: p.LastStatus}
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:   m.ID.String(),
		From: m.From,
		To:   m.To,
		Text: m.Text,
		Type: string(m.Type),
		Time: m.Time,
	}
}
