package moderation

import (
	"chat-presence/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"spam", "idiota"}, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Single word", "no spam please", "no **** please"},
		{"Repeated word", "spam spam", "**** ****"},
		{"Leet speak with punctuation", "you 1.d.1.0.t.a", "you ***********"},
		{"Uppercase", "SPAM alert", "**** alert"},
		{"Accents are preserved", "olá, spam", "olá, ****"},
		{"Trailing punctuation", "stop the spam!", "stop the ****!"},
		{"Nothing to censor", "bom dia a todos", "bom dia a todos"},
		{"Empty text", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, mod.Censor(tt.input))
		})
	}
	req.NotNil(mod.matcher)
}

func TestModerator_EmptyDictionary(t *testing.T) {
	req := require.New(t)

	// Given a dictionary that only holds noise
	mod, err := NewModerator([]string{"...", ",,,", ""}, replacementChar)
	req.NoError(err)

	// Then every text goes through untouched
	req.Equal("Hello ... spam", mod.Censor("Hello ... spam"))

	// And a nil moderator behaves the same
	var nilModerator *Moderator
	req.Equal("spam", nilModerator.Censor("spam"))
}

func TestParseWords(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"spam", "idiota"}, ParseWords(" spam, ,idiota ,"))
	req.Empty(ParseWords(""))
}

func TestReplacementRune(t *testing.T) {
	req := require.New(t)

	r, err := ReplacementRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = ReplacementRune("##")
	req.ErrorIs(err, errors.ErrInvalidReplacement)
}
