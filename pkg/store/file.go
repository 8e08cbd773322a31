package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pyhub-apps/callreport-golang/pkg/report"
)

// FileStore keeps records in a single JSON file. Saved records replace
// stored records with the same key.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) SaveSeries(ctx context.Context, series report.Series) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read()
	if err != nil {
		return err
	}

	byKey := make(map[string]report.ActivityRecord, len(stored)+len(series))
	for _, r := range stored {
		byKey[r.Key()] = r
	}
	for _, r := range series {
		byKey[r.Key()] = r
	}

	merged := make(report.Series, 0, len(byKey))
	for _, r := range byKey {
		merged = append(merged, r)
	}
	sortSeries(merged)

	return s.write(merged)
}

func (s *FileStore) LoadDay(ctx context.Context, date string) (report.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read()
	if err != nil {
		return nil, err
	}

	var day report.Series
	for _, r := range stored {
		if r.Date == date {
			day = append(day, r)
		}
	}
	return day, nil
}

func (s *FileStore) read() (report.Series, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var series report.Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("failed to decode store file %s: %w", s.path, err)
	}
	return series, nil
}

// write replaces the store file through a temporary file in the same directory
func (s *FileStore) write(series report.Series) error {
	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode series: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".callreport-*.json")
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// sortSeries orders records by timestamp; unreadable timestamps go last, by key
func sortSeries(series report.Series) {
	sort.SliceStable(series, func(i, j int) bool {
		ti, errI := series[i].Timestamp()
		tj, errJ := series[j].Timestamp()
		switch {
		case errI == nil && errJ == nil && !ti.Equal(tj):
			return ti.Before(tj)
		case errI == nil && errJ != nil:
			return true
		case errI != nil && errJ == nil:
			return false
		}
		return series[i].Key() < series[j].Key()
	})
}
