package linkshort

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/xerrors"
)

var ErrInvalidURL = errors.New("invalid URL")

const normalizeFlags = purell.FlagsSafe | purell.FlagRemoveFragment

// NormalizeURL validates raw as an absolute http(s) URL and returns its
// normalized form: lowercase scheme and host, default port removed, '/' as
// path if it was empty, fragment dropped.
// For example, 'HTTPS://Example.COM:443' becomes 'https://example.com/'.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", xerrors.Errorf("%v: %w", err, ErrInvalidURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", xerrors.Errorf("scheme must be http or https, got '%s': %w", u.Scheme, ErrInvalidURL)
	}
	if u.Hostname() == "" {
		return "", xerrors.Errorf("missing host: %w", ErrInvalidURL)
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return purell.NormalizeURL(u, normalizeFlags), nil
}
