package moderation

import (
	"chat-presence/errors"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Moderator masks forbidden words in message text.
// A Moderator built without words returns every text untouched.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

type textMapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the Aho-Corasick automaton over the normalized dictionary.
// Entries that normalize to nothing (pure punctuation, blanks) are ignored.
func NewModerator(censoredWords []string, replacement rune) (*Moderator, error) {
	patterns := lo.FilterMap(censoredWords, func(word string, _ int) ([]rune, bool) {
		normalized := normalizeRunes([]rune(word))
		return normalized, len(normalized) > 0
	})
	if len(patterns) == 0 {
		return &Moderator{replacement: replacement}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement}, nil
}

// ParseWords splits a comma separated dictionary such as "foo, bar".
func ParseWords(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(word string, _ int) (string, bool) {
		word = strings.TrimSpace(word)
		return word, word != ""
	})
}

// ReplacementRune validates a one character replacement setting.
func ReplacementRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, errors.ErrInvalidReplacement
	}
	return r[0], nil
}

// Censor replaces each matched word with the replacement rune, keeping the
// original spacing and punctuation around it.
func (m *Moderator) Censor(original string) string {
	if m == nil || m.matcher == nil {
		return original
	}
	mapping := normalize(original)
	if len(mapping.normalized) == 0 {
		return original
	}

	terms := m.matcher.MultiPatternSearch(mapping.normalized, false)
	if len(terms) == 0 {
		return original
	}

	origRunes := []rune(original)
	for _, term := range terms {
		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}
		for i := mapping.origIdx[start]; i <= mapping.origIdx[end-1]; i++ {
			origRunes[i] = m.replacement
		}
	}
	return string(origRunes)
}

func normalize(input string) textMapping {
	origRunes := []rune(input)
	mapping := textMapping{
		normalized: make([]rune, 0, len(origRunes)),
		origIdx:    make([]int, 0, len(origRunes)),
	}
	for i, r := range origRunes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(clean))
		mapping.origIdx = append(mapping.origIdx, i)
	}
	return mapping
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps leet speak digits and symbols back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
