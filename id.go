package linkshort

import (
	"github.com/jxskiss/base62"
	"golang.org/x/xerrors"
)

// FormatID renders a link ID for use in a short URL path.
func FormatID(id uint64) string {
	return string(base62.FormatUint(id))
}

// ParseID is the inverse of FormatID. Only the exact form FormatID produces
// is accepted; over-long input would otherwise wrap around to a valid ID.
func ParseID(shortID string) (uint64, error) {
	if shortID == "" {
		return 0, xerrors.New("empty link ID")
	}
	id, err := base62.ParseUint([]byte(shortID))
	if err != nil {
		return 0, xerrors.Errorf("could not parse '%s' as base62: %w", shortID, err)
	}
	if FormatID(id) != shortID {
		return 0, xerrors.Errorf("'%s' is not a canonical link ID", shortID)
	}
	return id, nil
}
