// Package store persists finished games and saved sessions to disk.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Record is one leaderboard line.
type Record struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// String formats the record as a leaderboard line, "name: score".
func (r Record) String() string {
	return fmt.Sprintf("%s: %d", r.Name, r.Score)
}

// ParseRecord parses a "name: score" line. The split happens at the last
// colon so names may contain colons.
func ParseRecord(line string) (Record, error) {
	line = strings.TrimSpace(line)
	i := strings.LastIndexByte(line, ':')
	if i < 0 {
		return Record{}, fmt.Errorf("parse record %q: missing ':'", line)
	}
	score, err := strconv.Atoi(strings.TrimSpace(line[i+1:]))
	if err != nil {
		return Record{}, fmt.Errorf("parse record %q: %w", line, err)
	}
	return Record{Name: strings.TrimSpace(line[:i]), Score: score}, nil
}

// Leaderboard is an append-only text file of records, one per line.
// It is safe for concurrent use within a process.
type Leaderboard struct {
	path string
	mu   sync.Mutex
}

// NewLeaderboard returns a leaderboard backed by the file at path.
// The file is created on the first append.
func NewLeaderboard(path string) *Leaderboard {
	return &Leaderboard{path: path}
}

// Path returns the backing file path.
func (l *Leaderboard) Path() string { return l.path }

// Append adds a record to the end of the file.
func (l *Leaderboard) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	if _, err := fmt.Fprintln(f, r.String()); err != nil {
		f.Close()
		return fmt.Errorf("append leaderboard: %w", err)
	}
	return f.Close()
}

// All returns every well-formed record, highest score first. Ties keep file
// order. Malformed lines are skipped. A missing file is an empty leaderboard.
func (l *Leaderboard) All() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open leaderboard: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		r, err := ParseRecord(sc.Text())
		if err != nil {
			continue
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		return b.Score - a.Score
	})
	return records, nil
}

// Top returns at most n records, highest score first.
func (l *Leaderboard) Top(n int) ([]Record, error) {
	records, err := l.All()
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}
