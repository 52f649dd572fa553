package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

// FileName is written next to the installed binary.
const FileName = "manifest.json"

// Store is a file-based implementation of domain.ManifestStore.
type Store struct{}

// New creates a new file-based manifest store.
func New() *Store {
	return &Store{}
}

// Load reads the manifest in binDir. Returns (nil, nil) if none exists.
func (s *Store) Load(binDir string) (*domain.InstallManifest, error) {
	data, err := os.ReadFile(filepath.Join(binDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing installed yet is not an error
		}
		return nil, err
	}

	var m domain.InstallManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &m, nil
}

// Save writes the manifest, creating binDir as needed. The file is replaced
// atomically so a concurrent Load never sees half a manifest.
func (s *Store) Save(binDir string, m *domain.InstallManifest) error {
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(binDir, "."+FileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(binDir, FileName)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Remove deletes the manifest in binDir, if any.
func (s *Store) Remove(binDir string) error {
	if err := os.Remove(filepath.Join(binDir, FileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
