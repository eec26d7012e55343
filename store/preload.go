package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// PreloadDirectory writes every pipeline definition file found in dir into
// the control collection. A file named {id}.yaml (or .yml) holds one
// pipeline configuration; the id is the file name without extension. Files
// are validated and persisted through the ordinary Put path, so a broken
// definition fails the preload.
func (s *Store) PreloadDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading pipeline directory %s: %w", dir, err)
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		source, err := loadDefinitionFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		if _, err := s.Put(ctx, id, source); err != nil {
			return fmt.Errorf("preloading pipeline %q: %w", id, err)
		}
		loaded++
	}
	if loaded > 0 {
		s.log.Info("Pipeline definitions preloaded", map[string]interface{}{
			"dir":   dir,
			"count": loaded,
		})
	}
	return nil
}

// loadDefinitionFile reads a YAML pipeline definition and re-encodes it as
// the canonical JSON payload stored in the control collection.
func loadDefinitionFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config map[string]interface{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	source, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return source, nil
}
