package linkshort

import (
	"context"
	"database/sql"
	"math/rand"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/xerrors"
)

// SQLiteIndex is an Index backed by an in-memory SQLite database. Like Store,
// its contents are gone once the process exits.
type SQLiteIndex struct {
	db    *sql.DB
	l     *sync.Mutex // serializes the draw-and-insert loop
	newID func() uint64
}

// compile-time assertion that we implement Index
var _ Index = &SQLiteIndex{}

const createLinksTable = `create table if not exists links (
	id      integer primary key,
	longURL text not null
)`

// NewSQLiteIndex returns an Index backed by a fresh in-memory SQLite database.
// gen may be nil to use the default random source.
func NewSQLiteIndex(gen func() uint64) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, xerrors.Errorf("could not open SQLite database: %w", err)
	}

	// every new connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(createLinksTable); err != nil {
		db.Close()
		return nil, xerrors.Errorf("could not create links table: %w", err)
	}

	if gen == nil {
		gen = rand.Uint64
	}

	return &SQLiteIndex{
		db:    db,
		l:     new(sync.Mutex),
		newID: gen,
	}, nil
}

// Close releases the database. All links are lost.
func (i *SQLiteIndex) Close() error {
	return i.db.Close()
}

// LookupID returns the URL mapped to the provided ID.
func (i *SQLiteIndex) LookupID(ctx context.Context, id uint64) (longURL string, err error) {
	// SQLite integers are signed; IDs are stored bit-for-bit as int64.
	err = i.db.QueryRowContext(ctx, "select longURL from links where id = ?", int64(id)).Scan(&longURL)
	if err != nil {
		if xerrors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", xerrors.Errorf("error resolving ID %d to long URL in database: %w", id, err)
	}

	return longURL, nil
}

// AddURL stores longURL under a random ID that is not in use yet and returns that ID.
func (i *SQLiteIndex) AddURL(ctx context.Context, longURL string) (id uint64, err error) {
	i.l.Lock()
	defer i.l.Unlock()

	for {
		id = i.newID()
		res, err := i.db.ExecContext(ctx, "insert or ignore into links (id, longURL) values (?, ?)", int64(id), longURL)
		if err != nil {
			return 0, xerrors.Errorf("error adding shortlink to database: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, xerrors.Errorf("error checking insert of shortlink: %w", err)
		}
		if n == 1 {
			return id, nil
		}
	}
}

// CountLinks returns the number of stored links.
func (i *SQLiteIndex) CountLinks() (n int, err error) {
	err = i.db.QueryRow("select count(*) from links").Scan(&n)
	if err != nil {
		return 0, xerrors.Errorf("error counting links in database: %w", err)
	}
	return n, nil
}
