package fileindex

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvoisin/mediaserv/internal/utils"
)

// LocalIndex serves the index primitives from a local filesystem root
type LocalIndex struct {
	root   string
	ignore *utils.IgnoreList
}

// NewLocalIndex creates a file index rooted at dir
func NewLocalIndex(dir string, ignore *utils.IgnoreList) (*LocalIndex, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve index root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat index root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("index root is not a directory: %s", abs)
	}
	if ignore == nil {
		ignore = &utils.IgnoreList{}
	}
	return &LocalIndex{root: abs, ignore: ignore}, nil
}

// ListUnder recursively lists all entries below the given relative path
func (idx *LocalIndex) ListUnder(ctx context.Context, rel Segments) ([]Entry, error) {
	dir := filepath.Join(idx.root, filepath.Join(rel...))
	if !isSubpath(idx.root, dir) {
		return nil, fmt.Errorf("path escapes index root")
	}

	var entries []Entry
	if err := idx.walk(ctx, rel, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (idx *LocalIndex) walk(ctx context.Context, rel Segments, out *[]Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(idx.root, filepath.Join(rel...))
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list directory: %w", err)
	}

	for _, de := range dirEntries {
		name := de.Name()
		child := rel.Child(name)
		if ignored, _ := idx.ignore.IsIgnored(child.Join()); ignored {
			continue
		}

		entry := Entry{
			ID:    EntryID(child),
			Dir:   append(Segments{}, rel...),
			Name:  name,
			IsDir: de.IsDir(),
		}
		if !de.IsDir() {
			entry.Ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		}
		*out = append(*out, entry)

		if de.IsDir() {
			if err := idx.walk(ctx, child, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Open opens the entry's file for reading and returns its total size
func (idx *LocalIndex) Open(ctx context.Context, entry Entry) (io.ReadSeekCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if entry.IsDir {
		return nil, 0, fmt.Errorf("entry is a directory")
	}

	full := filepath.Join(idx.root, filepath.Join(entry.Path()...))
	if !isSubpath(idx.root, full) {
		return nil, 0, fmt.Errorf("entry escapes index root")
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open entry: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat entry: %w", err)
	}
	return f, info.Size(), nil
}

// isSubpath ensures child is within root, preventing path traversal
func isSubpath(root, child string) bool {
	rel, err := filepath.Rel(root, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
