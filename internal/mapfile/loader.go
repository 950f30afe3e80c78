// Package mapfile discovers and decodes map configuration documents.
// Documents are JSON files shaped like domain.MapConfig; everything here is
// thin I/O, the interesting behavior lives in internal/service.
package mapfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkordes/fleet-map-sync/internal/domain"
)

// Discover returns the paths of all regular files directly under dir, in
// lexical order. Subdirectories are ignored; discovery is not recursive.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("mapfile.Discover: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// Loader decodes map documents from disk. It satisfies service.MapLoader.
type Loader struct{}

// NewLoader constructs a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the JSON document at path, decodes it into a domain.MapConfig,
// and validates the document invariants. Errors name the offending file.
func (l *Loader) Load(path string) (domain.MapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.MapConfig{}, fmt.Errorf("mapfile.Loader.Load: %w", err)
	}
	var cfg domain.MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.MapConfig{}, fmt.Errorf("mapfile.Loader.Load: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.MapConfig{}, fmt.Errorf("mapfile.Loader.Load: map %s: %w", path, err)
	}
	return cfg, nil
}
