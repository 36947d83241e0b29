package fileindex

import (
	"context"
	"io"
	"path"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Segments is an ordered sequence of path elements relative to the index
// root. Keeping segments structured avoids separator bugs that come with
// concatenated path strings.
type Segments []string

// Join renders the segments as a slash-separated relative path
func (s Segments) Join() string {
	return path.Join(s...)
}

// Child returns a new segment sequence extended by name
func (s Segments) Child(name string) Segments {
	out := make(Segments, 0, len(s)+1)
	out = append(out, s...)
	return append(out, name)
}

// HasPrefix reports whether s lies under (or equals) prefix
func (s Segments) HasPrefix(prefix Segments) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, p := range prefix {
		if s[i] != p {
			return false
		}
	}
	return true
}

// Entry describes one file or directory known to the index.
// Entries are read-only projections; the catalog never mutates them.
type Entry struct {
	ID    string   // stable id derived from the relative path
	Dir   Segments // containing directory, relative to the index root
	Name  string   // base name including extension
	Ext   string   // lower-cased extension without the dot, empty for directories
	IsDir bool
}

// Path returns the full segment path of the entry
func (e Entry) Path() Segments {
	return e.Dir.Child(e.Name)
}

// EntryID derives the stable id for a relative segment path
func EntryID(p Segments) string {
	return strconv.FormatUint(xxhash.Sum64String(p.Join()), 16)
}

// Index is the external file index the catalog is built from.
// It exposes exactly two primitives: list entries under a path and read
// file bytes. Implementations must be safe for concurrent use.
type Index interface {
	// ListUnder recursively lists all entries under the given relative path
	ListUnder(ctx context.Context, rel Segments) ([]Entry, error)

	// Open returns a reader over the entry's bytes plus its total size.
	// The returned reader is scoped to one request and must be closed by
	// the caller.
	Open(ctx context.Context, entry Entry) (io.ReadSeekCloser, int64, error)
}
