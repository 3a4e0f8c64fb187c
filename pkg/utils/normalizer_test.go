package utils_test

import (
	"testing"

	"github.com/revlyx/revector/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "string with diacritics",
			input: "héllo wörld",
			want:  "hello world",
		},
		{
			name:  "mixed case",
			input: "HéLLo WöRLD",
			want:  "hello world",
		},
		{
			name:  "extra whitespace compressed",
			input: "  hello \t  world  ",
			want:  "hello world",
		},
		{
			name:  "newlines preserved",
			input: "hello\nworld",
			want:  "hello\nworld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := utils.NewTextNormalizer().Normalize(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		s      string
		substr string
		want   bool
	}{
		{
			name:   "empty strings",
			s:      "",
			substr: "",
			want:   false,
		},
		{
			name:   "exact match",
			s:      "hello world",
			substr: "hello",
			want:   true,
		},
		{
			name:   "match ignores diacritics",
			s:      "héllo wörld",
			substr: "hello",
			want:   true,
		},
		{
			name:   "match ignores case",
			s:      "Hello World",
			substr: "WORLD",
			want:   true,
		},
		{
			name:   "no match",
			s:      "hello world",
			substr: "goodbye",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := utils.NewTextNormalizer().Contains(tt.s, tt.substr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompressWhitespacePreserveNewlines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses spaces",
			input: "a    b",
			want:  "a b",
		},
		{
			name:  "normalizes line endings",
			input: "a\r\nb\rc",
			want:  "a\nb\nc",
		},
		{
			name:  "trims surrounding whitespace",
			input: "  \n a b \n  ",
			want:  "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, utils.CompressWhitespacePreserveNewlines(tt.input))
		})
	}
}
