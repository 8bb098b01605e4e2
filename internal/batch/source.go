// Package batch persists and discovers raw action batches on disk.
// Batches are JSON snapshots written by the scraper and consumed by the
// ingestion pipeline, so a failed ingest can be replayed without
// re-fetching the upstream site.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/akratos/go-actions-backend/internal/domain"
)

const (
	filePrefix = "presidential_actions_"
	fileSuffix = ".json"
)

// ErrNoBatches is returned when the data directory holds no batch files.
var ErrNoBatches = errors.New("batch: no batch files found")

// Source abstracts retrieval of raw batches so callers never touch the
// filesystem directly.
type Source interface {
	// Latest returns the most recently written batch.
	Latest() (*domain.RawBatch, error)

	// All returns every available batch, oldest first.
	All() ([]*domain.RawBatch, error)
}

// DirSource reads batches from a flat directory of JSON files named
// presidential_actions_<timestamp>.json.
type DirSource struct {
	dir string
}

// NewDirSource returns a DirSource over dir. The directory does not need
// to exist yet; discovery treats a missing directory as empty.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Latest implements Source.
func (s *DirSource) Latest() (*domain.RawBatch, error) {
	files, err := s.list()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoBatches
	}
	return readBatch(files[len(files)-1])
}

// All implements Source.
func (s *DirSource) All() ([]*domain.RawBatch, error) {
	files, err := s.list()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoBatches
	}
	out := make([]*domain.RawBatch, 0, len(files))
	for _, f := range files {
		b, err := readBatch(f)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// list returns matching batch file paths sorted oldest to newest by
// modification time, with the path as a tiebreaker.
func (s *DirSource) list() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("batch: read dir %s: %w", s.dir, err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var cands []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("batch: stat %s: %w", name, err)
		}
		cands = append(cands, candidate{path: filepath.Join(s.dir, name), mod: info.ModTime()})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].mod.Equal(cands[j].mod) {
			return cands[i].path < cands[j].path
		}
		return cands[i].mod.Before(cands[j].mod)
	})

	paths := make([]string, len(cands))
	for i, c := range cands {
		paths[i] = c.path
	}
	return paths, nil
}

func readBatch(path string) (*domain.RawBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}

	// Files may be either a bare record array or a wrapped object with a
	// source field. Try the wrapped form first.
	var wrapped struct {
		Source  string             `json:"source"`
		Records []domain.RawAction `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Records != nil {
		return &domain.RawBatch{Source: wrapped.Source, Records: wrapped.Records}, nil
	}

	var records []domain.RawAction
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("batch: decode %s: %w", path, err)
	}
	return &domain.RawBatch{Source: filepath.Base(path), Records: records}, nil
}

// Save writes a batch of raw records to dir under a timestamped name and
// returns the full path. The directory is created if needed.
func Save(dir string, records []domain.RawAction, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("batch: create dir %s: %w", dir, err)
	}
	name := filePrefix + now.UTC().Format("20060102_150405") + fileSuffix
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("batch: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("batch: write %s: %w", path, err)
	}
	return path, nil
}
