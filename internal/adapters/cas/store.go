// Package cas implements the persistent layer cache and the image
// configuration writer, both backed by flat JSON files.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultStateDir holds the layer cache and the image snapshot,
	// relative to the build root.
	DefaultStateDir = ".kiln"

	layersFile = "layers.json"
	imageFile  = "image.json"
)

var (
	_ ports.LayerStore  = (*Store)(nil)
	_ ports.ImageWriter = (*Store)(nil)
)

// Store implements ports.LayerStore and ports.ImageWriter using flat JSON
// files under a state directory.
type Store struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]domain.LayerInfo
}

// NewStore creates a new Store backed by the given state directory.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		dir:   filepath.Clean(dir),
		cache: make(map[string]domain.LayerInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Join(s.dir, layersFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read layer store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal layer store")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal layer store")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(filepath.Join(s.dir, layersFile), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write layer store")
	}

	return nil
}

// Get retrieves the layer info for a given step name.
func (s *Store) Get(stepName string) (*domain.LayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[stepName]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the layer info and persists the store.
func (s *Store) Put(info domain.LayerInfo) error {
	s.mu.Lock()
	s.cache[info.StepName] = info
	s.mu.Unlock()

	return s.save()
}

// WriteImage writes the final image configuration snapshot.
func (s *Store) WriteImage(cfg *domain.ImageConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal image configuration")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(filepath.Join(s.dir, imageFile), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write image configuration")
	}

	return nil
}
