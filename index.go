package linkshort

import (
	"context"
	"errors"
)

// Index keeps track of the ID -> URL mapping.
type Index interface {
	LookupID(ctx context.Context, id uint64) (longURL string, err error)
	AddURL(ctx context.Context, longURL string) (id uint64, err error)
}

var ErrNotFound = errors.New("not found in index")
