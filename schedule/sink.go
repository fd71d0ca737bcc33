/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package schedule

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// GameSink collects records from concurrent workers. It is drained once,
// after every producer has finished.
type GameSink struct {
	mu      sync.Mutex
	records []GameRecord
}

func NewGameSink() *GameSink {
	return &GameSink{}
}

func (s *GameSink) Add(recs ...GameRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, recs...)
}

func (s *GameSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Drain empties the sink and returns what it held, in insertion order.
func (s *GameSink) Drain() []GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.records
	s.records = nil
	return out
}

// snapshot returns the records held so far without removing them.
func (s *GameSink) snapshot() []GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[:len(s.records):len(s.records)]
}

// drainFirst removes the first n records, keeping any added since they were
// written.
func (s *GameSink) drainFirst(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[n:]
	if len(s.records) == 0 {
		s.records = nil
	}
}

func writeRecords(w io.Writer, recs []GameRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		if _, err := fmt.Fprintln(bw, rec.Line()); err != nil {
			return fmt.Errorf("unable to write game record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to flush game records: %w", err)
	}

	return nil
}

// FlushAll writes the sink to w, one interchange line per record. Records are
// removed from the sink only once every line has been written, so a failed
// flush can be retried.
func (s *GameSink) FlushAll(w io.Writer) (int, error) {
	recs := s.snapshot()
	if err := writeRecords(w, recs); err != nil {
		return 0, err
	}
	s.drainFirst(len(recs))

	return len(recs), nil
}

// FlushToFile writes the sink to dir/name and returns the path written. The
// records go to a temporary file in dir that then replaces dir/name, so an
// existing games file survives a failed write.
func (s *GameSink) FlushToFile(dir, name string) (string, int, error) {
	fh, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return "", 0, fmt.Errorf("unable to create games file: %w", err)
	}
	tmpPath := fh.Name()
	defer os.Remove(tmpPath)

	recs := s.snapshot()
	err = writeRecords(fh, recs)
	if closeErr := fh.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("unable to close games file: %w", closeErr)
	}
	if err != nil {
		return "", 0, err
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", 0, fmt.Errorf("unable to replace games file: %w", err)
	}
	s.drainFirst(len(recs))

	return path, len(recs), nil
}

// ReadRecords parses an interchange file.
func ReadRecords(r io.Reader) ([]GameRecord, error) {
	var out []GameRecord
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		rec, err := ParseRecordLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read game records: %w", err)
	}

	return out, nil
}
