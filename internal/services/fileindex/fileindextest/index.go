// Package fileindextest provides an in-memory fileindex.Index for tests.
package fileindextest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mvoisin/mediaserv/internal/services/fileindex"
)

// Index is an in-memory file index seeded by tests
type Index struct {
	entries []fileindex.Entry
	content map[string][]byte // joined path -> file bytes
	known   map[string]bool   // joined path -> already registered
}

// New creates an empty in-memory index
func New() *Index {
	return &Index{
		content: make(map[string][]byte),
		known:   make(map[string]bool),
	}
}

// AddDir registers a directory (and its missing parents) by slash path
func (x *Index) AddDir(path string) fileindex.Entry {
	return x.add(path, nil, true)
}

// AddFile registers a file (and its missing parents) by slash path
func (x *Index) AddFile(path string, content []byte) fileindex.Entry {
	return x.add(path, content, false)
}

func (x *Index) add(path string, content []byte, isDir bool) fileindex.Entry {
	segments := fileindex.Segments(strings.Split(path, "/"))

	// Register missing parent directories first
	for i := 1; i < len(segments); i++ {
		parent := segments[:i]
		if !x.known[parent.Join()] {
			x.register(parent, nil, true)
		}
	}

	if x.known[segments.Join()] {
		for _, entry := range x.entries {
			if entry.Path().Join() == path {
				return entry
			}
		}
	}
	return x.register(segments, content, isDir)
}

func (x *Index) register(segments fileindex.Segments, content []byte, isDir bool) fileindex.Entry {
	name := segments[len(segments)-1]
	entry := fileindex.Entry{
		ID:    fileindex.EntryID(segments),
		Dir:   append(fileindex.Segments{}, segments[:len(segments)-1]...),
		Name:  name,
		IsDir: isDir,
	}
	if !isDir {
		if i := strings.LastIndex(name, "."); i >= 0 {
			entry.Ext = strings.ToLower(name[i+1:])
		}
		x.content[segments.Join()] = content
	}
	x.entries = append(x.entries, entry)
	x.known[segments.Join()] = true
	return entry
}

// ListUnder returns all registered entries under the given path
func (x *Index) ListUnder(ctx context.Context, rel fileindex.Segments) ([]fileindex.Entry, error) {
	var out []fileindex.Entry
	for _, entry := range x.entries {
		if len(entry.Path()) > len(rel) && entry.Path().HasPrefix(rel) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Open returns a reader over the registered file bytes
func (x *Index) Open(ctx context.Context, entry fileindex.Entry) (io.ReadSeekCloser, int64, error) {
	if entry.IsDir {
		return nil, 0, fmt.Errorf("entry is a directory")
	}
	content, ok := x.content[entry.Path().Join()]
	if !ok {
		return nil, 0, fmt.Errorf("no such file: %s", entry.Path().Join())
	}
	return nopSeekCloser{bytes.NewReader(content)}, int64(len(content)), nil
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }
