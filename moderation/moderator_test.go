package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// TestModerator_Censor
// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"scammer", "spambot", "badger"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "That scammer is back",
			expected: "That ******* is back",
			words:    []string{"scammer"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "spambot spambot spambot",
			expected: "******* ******* *******",
			words:    []string{"spambot", "spambot", "spambot"},
		},
		{
			name: "Leet speak and internal punctuation",
			// s (index 10) . c . 4 . m . m . € r (index 21) -> 12 characters
			input:    "Beware of s.c.4.m.m.€r !",
			expected: "Beware of ************ !",
			words:    []string{"scammer"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "S-P-A-M-B-O-T run by a S.C.A.M.M.E.R",
			expected: "************* run by a *************",
			words:    []string{"spambot", "scammer"},
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
			words:    []string{"badger"},
		},
		{
			name:     "Word adjacent to trailing punctuation",
			input:    "Block that spambot!",
			expected: "Block that *******!",
			words:    []string{"spambot"},
		},
		{
			name:     "Nothing to censor",
			input:    "Welcome to the room",
			expected: "Welcome to the room",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given real noise and not Leet Speak associated
	dictionary := []string{"...", ",,,", "", "scammer"}

	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	// Then the sentence is censored
	input := "The scammer is gone"
	expected := "The ******* is gone"
	content, words := mod.Censor(input)
	req.Equal(expected, content)
	req.Equal([]string{"scammer"}, words)

	// Then real noise is uncensored
	input = "Hello ..."
	expected = "Hello ..."
	content, words = mod.Censor(input)
	req.Equal(expected, content)
	req.Nil(words)
}

func TestLoadWords(t *testing.T) {
	req := require.New(t)

	data, err := LoadWords()
	req.NoError(err)
	req.NotEmpty(data.Words)
	req.Contains(data.Languages, "en")
	req.Contains(data.Words, "badger")
}
