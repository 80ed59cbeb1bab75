package linkshort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash is used instead of empty path", "https://example.com", "https://example.com/"},
		{"existing path is kept", "https://example.com/a/b", "https://example.com/a/b"},
		{"default https port is removed", "https://example.com:443/x", "https://example.com/x"},
		{"default http port is removed", "http://example.com:80", "http://example.com/"},
		{"other ports are kept", "http://example.com:8080/", "http://example.com:8080/"},
		{"scheme and host are lowercased", "HTTPS://Example.COM/Path", "https://example.com/Path"},
		{"query is kept", "https://example.com/search?q=go", "https://example.com/search?q=go"},
		{"fragment is dropped", "https://example.com/page#top", "https://example.com/page"},
		{"surrounding whitespace is trimmed", "  https://example.com/\n", "https://example.com/"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := NormalizeURL(test.in)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestNormalizeURLIsIdempotent(t *testing.T) {
	once, err := NormalizeURL("HTTP://Example.com:80")
	require.NoError(t, err)

	twice, err := NormalizeURL(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeURLRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"example.com",
		"/relative/path",
		"ftp://example.com/file",
		"mailto:someone@example.com",
		"http://",
		"http://exa mple.com/",
		"http://:80",
		"https://:443/x",
		"http://:8080/",
	} {
		_, err := NormalizeURL(in)
		assert.ErrorIs(t, err, ErrInvalidURL, "input %q", in)
	}
}
