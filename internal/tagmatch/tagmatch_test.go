package tagmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	vocab := []string{"go", "Machine Learning", "rust", "café", "api", "web-dev", "GO"}

	tests := []struct {
		name        string
		title       string
		description string
		want        []string
	}{
		{"whole words only", "Going places", "", nil},
		{"case insensitive", "Learn GO fast", "", []string{"go"}},
		{"multi word", "Intro to machine learning", "", []string{"Machine Learning"}},
		{"multi word split", "machine and learning", "", nil},
		{"plural", "Designing APIs", "", []string{"api"}},
		{"diacritics", "Best cafe in town", "", []string{"café"}},
		{"dash tag", "Modern web dev tooling", "", []string{"web-dev"}},
		{"description", "Untitled", "Written in Rust.", []string{"rust"}},
		{"no straddle", "machine", "learning", nil},
		{"vocabulary order", "rust and go", "", []string{"go", "rust"}},
		{"empty text", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.title, tt.description, vocab))
		})
	}
}

func TestMatchEmptyVocabulary(t *testing.T) {
	assert.Nil(t, Match("anything", "at all", nil))
}
