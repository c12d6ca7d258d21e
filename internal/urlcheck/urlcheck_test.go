package urlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "https url",
			input: "https://example.com/article",
			want:  true,
		},
		{
			name:  "http url",
			input: "http://news.example.org/2024/01/story",
			want:  true,
		},
		{
			name:  "url with query and fragment",
			input: "https://example.com/a?id=1#top",
			want:  true,
		},
		{
			name:  "empty string",
			input: "",
			want:  false,
		},
		{
			name:  "plain text query",
			input: "what happened in the wildfires",
			want:  false,
		},
		{
			name:  "missing scheme",
			input: "example.com/article",
			want:  false,
		},
		{
			name:  "unsupported scheme",
			input: "ftp://example.com/file",
			want:  false,
		},
		{
			name:  "scheme without host",
			input: "https://",
			want:  false,
		},
		{
			name:  "relative path",
			input: "/articles/123",
			want:  false,
		},
		{
			name:  "malformed control characters",
			input: "https://exa\x7fmple.com",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsURL(tt.input))
		})
	}
}
