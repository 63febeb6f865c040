// Package store loads and saves the books.yaml library file.
package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/litmap/internal/model"
)

// Load reads a library from the given YAML file
func Load(path string) (*model.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var lib model.Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, book := range lib.Books {
		if book == nil || book.Title == "" {
			return nil, fmt.Errorf("%s: book %d has no title", path, i+1)
		}
	}

	return &lib, nil
}

// Save writes the library back to path, keeping the previous version as
// path.bak so a bad enrichment run can be undone by hand.
func Save(path string, lib *model.Library) error {
	data, err := yaml.Marshal(lib)
	if err != nil {
		return fmt.Errorf("marshal library: %w", err)
	}

	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
