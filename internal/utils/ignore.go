package utils

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// IgnoreList excludes scan paths by case-insensitive substring match.
// Terms come one per line from a plain text file; blank lines and lines
// starting with # are skipped.
type IgnoreList struct {
	terms []string
}

// LoadIgnoreList reads ignore terms from path. A missing file is not an
// error, it yields a list that excludes nothing.
func LoadIgnoreList(path string) (*IgnoreList, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &IgnoreList{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	list := &IgnoreList{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list.terms = append(list.terms, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// IsIgnored reports whether relPath matches an ignore term, and which
// term matched
func (l *IgnoreList) IsIgnored(relPath string) (bool, string) {
	lower := strings.ToLower(relPath)
	for _, term := range l.terms {
		if strings.Contains(lower, term) {
			return true, term
		}
	}
	return false, ""
}
