package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Jazz Concert, Paris!",
			want: []string{"jazz", "concert", "paris"},
		},
		{
			name: "keeps digits",
			text: "Festival 2025",
			want: []string{"festival", "2025"},
		},
		{
			name: "drops stopwords",
			text: "A night at the opera",
			want: []string{"night", "opera"},
		},
		{
			name: "preserves accented characters",
			text: "Théâtre des Champs-Élysées",
			want: []string{"théâtre", "champs", "élysées"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only punctuation",
			text: "... !!!",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestTermFrequencies(t *testing.T) {
	freqs := TermFrequencies("jazz jazz concert Jazz")
	assert.Equal(t, map[string]int{"jazz": 3, "concert": 1}, freqs)
}

func TestTokenizeDeterministic(t *testing.T) {
	text := "Le Duc des Lombards: Jazz Night 2025"
	first := Tokenize(text)
	second := Tokenize(text)
	assert.Equal(t, first, second)
}
