// Package cache is the local cache store: one envelope file per table,
// replaced atomically so a reader sees either the old complete dataset or the
// new one, never a mix. Corruption is indistinguishable from a miss by
// design; callers fall through to the next data source.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/modelscout/modelscout/internal/model"
	"github.com/modelscout/modelscout/internal/util"
)

// DefaultTTL is how long a hosted-derived table counts as fresh without
// re-checking the manifest.
const DefaultTTL = 24 * time.Hour

const manifestFile = "manifest.json"

// Entry is the persisted envelope for one table.
type Entry struct {
	Table     string         `json:"table"`
	FetchedAt time.Time      `json:"fetched_at"`
	Source    model.Source   `json:"source"`
	Checksum  string         `json:"checksum,omitempty"`
	Columns   []model.Column `json:"columns"`
	Rows      [][]any        `json:"rows"`
}

// Data rehydrates the table carried by this entry.
func (e *Entry) Data() *model.Table {
	return &model.Table{Name: e.Table, Columns: e.Columns, Rows: e.Rows}
}

type Store struct {
	dir string
	log *zap.Logger
}

func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) dataPath(table string) string {
	return filepath.Join(s.dir, table+".dat")
}

// Read loads the entry for a table. Absence and corruption both return
// (nil, false); neither is an error for the caller.
func (s *Store) Read(table string) (*Entry, bool) {
	path := s.dataPath(table)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cache read failed, treating as miss",
				zap.String("table", table), zap.Error(err))
		}
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		s.log.Warn("cache entry corrupt, treating as miss",
			zap.String("table", table), zap.Error(err))
		return nil, false
	}
	if e.Table != table || len(e.Columns) == 0 {
		s.log.Warn("cache entry does not match table, treating as miss",
			zap.String("table", table), zap.String("entry_table", e.Table))
		return nil, false
	}
	return &e, true
}

// Write persists a table atomically: marshal to a same-directory temp file,
// then rename into place. A crash or Ctrl-C mid-write leaves the previous
// entry untouched.
func (s *Store) Write(table string, data *model.Table, source model.Source, checksum string) (*Entry, error) {
	e := &Entry{
		Table:     table,
		FetchedAt: time.Now().UTC(),
		Source:    source,
		Checksum:  checksum,
		Columns:   data.Columns,
		Rows:      data.Rows,
	}
	if err := s.writeEntry(e); err != nil {
		return nil, err
	}
	s.log.Debug("cache write",
		zap.String("table", table),
		zap.String("source", source.String()),
		zap.Int("rows", len(data.Rows)))
	return e, nil
}

// Touch re-stamps fetched_at on an existing entry. Used when the hosted
// manifest confirms the cached bytes are still current, so no payload
// download happened but the freshness window restarts.
func (s *Store) Touch(table string) error {
	e, ok := s.Read(table)
	if !ok {
		return fmt.Errorf("touch %s: no cache entry", table)
	}
	e.FetchedAt = time.Now().UTC()
	return s.writeEntry(e)
}

func (s *Store) writeEntry(e *Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", e.Table, err)
	}
	return s.atomicWrite(s.dataPath(e.Table), raw)
}

func (s *Store) atomicWrite(path string, raw []byte) error {
	tmp := path + ".tmp-" + util.New()
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// IsFresh reports whether the entry is within its freshness window.
func (s *Store) IsFresh(e *Entry, ttl time.Duration) bool {
	if e == nil {
		return false
	}
	return time.Since(e.FetchedAt) < ttl
}

// Clear removes a single table's cache file. Idempotent.
func (s *Store) Clear(table string) error {
	err := os.Remove(s.dataPath(table))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

// ClearAll removes every cache artifact: table data, the saved manifest, and
// quota records. Idempotent.
func (s *Store) ClearAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, de := range entries {
		name := de.Name()
		if strings.HasSuffix(name, ".dat") ||
			strings.Contains(name, ".dat.tmp-") ||
			name == manifestFile ||
			(strings.HasPrefix(name, "quota-") && strings.HasSuffix(name, ".json")) {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove %s: %w", name, err)
			}
		}
	}
	return nil
}

// SaveManifest persists the last-seen hosted manifest.
func (s *Store) SaveManifest(m *model.Manifest) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return s.atomicWrite(filepath.Join(s.dir, manifestFile), raw)
}

// LoadManifest returns the last-seen hosted manifest, if any.
func (s *Store) LoadManifest() (*model.Manifest, bool) {
	raw, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if err != nil {
		return nil, false
	}
	var m model.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		s.log.Warn("saved manifest corrupt", zap.Error(err))
		return nil, false
	}
	return &m, true
}

// Stats summarizes what is on disk.
type Stats struct {
	Location  string
	Entries   int
	TotalSize int64
}

func (s *Store) Stats() (Stats, error) {
	st := Stats{Location: s.dir}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, fmt.Errorf("read cache dir: %w", err)
	}
	for _, de := range entries {
		info, err := de.Info()
		if err != nil {
			continue
		}
		name := de.Name()
		if strings.HasSuffix(name, ".dat") {
			st.Entries++
			st.TotalSize += info.Size()
		} else if name == manifestFile || strings.HasPrefix(name, "quota-") {
			st.TotalSize += info.Size()
		}
	}
	return st, nil
}
