package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYoutubeID(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://example.com/watch?v=short", ""},
		{"not a url", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, youtubeID(tc.url), tc.url)
	}
}
