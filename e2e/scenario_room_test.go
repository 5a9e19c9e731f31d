package e2e

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type message struct {
	ID   string `json:"_id"`
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
	Type string `json:"type"`
	Time string `json:"time"`
}

type testRoomSuite struct {
	BaseHTTPSuite
}

func TestRoomSuite(t *testing.T) {
	suite.Run(t, &testRoomSuite{})
}

func (s *testRoomSuite) TestPrivateConversation() {
	// Unique names keep the scenario repeatable against a long lived server
	suffix := uuid.NewString()[:8]
	alice, bob, carol := "alice-"+suffix, "bob-"+suffix, "carol-"+suffix

	s.Step("Step 1: Participants join", func() {
		for _, name := range []string{alice, bob, carol} {
			s.Equal(http.StatusCreated, s.Call(http.MethodPost, "/participants", "", map[string]string{"name": name}, nil))
		}
		s.Equal(http.StatusConflict, s.Call(http.MethodPost, "/participants", "", map[string]string{"name": alice}, nil))
	})

	var private message
	s.Step("Step 2: Alice whispers to Bob", func() {
		status := s.Call(http.MethodPost, "/messages", alice, map[string]string{
			"to": bob, "text": "only for you", "type": "private_message",
		}, &private)
		s.Require().Equal(http.StatusCreated, status)
		s.NotEmpty(private.ID)
	})

	s.Step("Step 3: Only Alice and Bob can read it", func() {
		for user, visible := range map[string]bool{alice: true, bob: true, carol: false} {
			var messages []message
			s.Require().Equal(http.StatusOK, s.Call(http.MethodGet, "/messages?limit=100", user, nil, &messages))
			found := false
			for _, m := range messages {
				if m.ID == private.ID {
					found = true
				}
			}
			s.Equal(visible, found, user)
		}
	})

	s.Step("Step 4: Heartbeats keep the room alive", func() {
		s.Equal(http.StatusOK, s.Call(http.MethodPost, "/status", alice, nil, nil))
		s.Equal(http.StatusNotFound, s.Call(http.MethodPost, "/status", "ghost-"+suffix, nil, nil))
	})

	s.Step("Step 5: Only the sender edits and deletes", func() {
		edit := map[string]string{"to": bob, "text": "still only for you", "type": "private_message"}
		s.Equal(http.StatusUnauthorized, s.Call(http.MethodPut, "/messages/"+private.ID, bob, edit, nil))
		s.Equal(http.StatusOK, s.Call(http.MethodPut, "/messages/"+private.ID, alice, edit, nil))
		s.Equal(http.StatusUnauthorized, s.Call(http.MethodDelete, "/messages/"+private.ID, carol, nil, nil))
		s.Equal(http.StatusOK, s.Call(http.MethodDelete, "/messages/"+private.ID, alice, nil, nil))
		s.Equal(http.StatusNotFound, s.Call(http.MethodDelete, "/messages/"+private.ID, alice, nil, nil))
	})
}
