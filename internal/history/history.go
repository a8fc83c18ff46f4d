// Package history keeps a bounded on-disk record of captures: full
// PNGs, small thumbnails and a JSON index.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// DefaultLimit is how many entries a store keeps before pruning.
const DefaultLimit = 100

const (
	indexFile = "index.json"
	thumbSize = 256
)

// Entry is one recorded capture.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Path      string    `json:"path"`
	Thumb     string    `json:"thumb"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Source    string    `json:"source"`
}

// Store manages the history directory. Entries in the index are
// ordered oldest first; List reverses them.
type Store struct {
	dir   string
	limit int
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of retained entries. Values below 1 keep
// the default.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.limit = n
		}
	}
}

// Open prepares a store rooted at dir, creating it when missing.
func Open(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("history directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	s := &Store{dir: dir, limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultDir is the history location when the config does not name one.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "snapmark", "history"), nil
	}
	return filepath.Join(home, ".local", "share", "snapmark", "history"), nil
}

// Dir is the directory the store writes into.
func (s *Store) Dir() string { return s.dir }

// Add saves img as a new entry and prunes past the limit. Source is a
// free-form origin label ("screen", "window:Firefox", ...).
func (s *Store) Add(img image.Image, source string) (Entry, error) {
	entries, err := s.load()
	if err != nil {
		log.Printf("history index unreadable, starting fresh: %v", err)
		entries = nil
	}

	id := uuid.New()
	entry := Entry{
		ID:        id,
		CreatedAt: time.Now(),
		Path:      filepath.Join(s.dir, id.String()+".png"),
		Thumb:     filepath.Join(s.dir, id.String()+"_thumb.png"),
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		Source:    source,
	}

	if err := writePNG(entry.Path, img); err != nil {
		return Entry{}, err
	}
	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)
	if err := writePNG(entry.Thumb, thumb); err != nil {
		os.Remove(entry.Path)
		return Entry{}, err
	}

	entries = append(entries, entry)
	entries = s.prune(entries)
	if err := s.save(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns entries newest first.
func (s *Store) List() ([]Entry, error) {
	entries, err := s.load()
	if err != nil {
		log.Printf("history index unreadable: %v", err)
		return nil, nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out, nil
}

// Latest returns the most recent entry.
func (s *Store) Latest() (Entry, error) {
	entries, err := s.load()
	if err != nil || len(entries) == 0 {
		return Entry{}, fmt.Errorf("history is empty")
	}
	return entries[len(entries)-1], nil
}

// Get resolves an entry by full or abbreviated ID.
func (s *Store) Get(id string) (Entry, error) {
	entries, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.ID.String() == id || (len(id) >= 8 && len(e.ID.String()) >= len(id) && e.ID.String()[:len(id)] == id) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("history entry %q not found", id)
}

// Remove deletes one entry and its files.
func (s *Store) Remove(id string) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.ID.String() == id {
			removeFiles(e)
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return fmt.Errorf("history entry %q not found", id)
	}
	return s.save(kept)
}

// Clear deletes every entry.
func (s *Store) Clear() error {
	entries, err := s.load()
	if err == nil {
		for _, e := range entries {
			removeFiles(e)
		}
	}
	return s.save(nil)
}

// Prune drops the oldest entries past the limit and reports how many
// were removed.
func (s *Store) Prune() (int, error) {
	entries, err := s.load()
	if err != nil {
		return 0, err
	}
	before := len(entries)
	entries = s.prune(entries)
	if err := s.save(entries); err != nil {
		return 0, err
	}
	return before - len(entries), nil
}

func (s *Store) prune(entries []Entry) []Entry {
	for len(entries) > s.limit {
		removeFiles(entries[0])
		entries = entries[1:]
	}
	return entries
}

func removeFiles(e Entry) {
	for _, p := range []string{e.Path, e.Thumb} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove history file %s: %v", p, err)
		}
	}
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode history index: %w", err)
	}
	return entries, nil
}

func (s *Store) save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, indexFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history index: %w", err)
	}
	return os.Rename(tmp, filepath.Join(s.dir, indexFile))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
