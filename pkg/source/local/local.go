// Package local loads model snapshots from JSON or TOML files on disk.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/source"
)

// Source loads snapshots from the local filesystem. The name passed to
// Load is a file path; the format is picked by extension (.json or
// .toml).
type Source struct{}

// New creates a local file source.
func New() *Source {
	return &Source{}
}

// Load reads and decodes the snapshot file at path. A snapshot without
// a name takes the file's base name.
func (s *Source) Load(ctx context.Context, path string) (*source.Snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "model file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read model file %s: %w", path, err)
	}

	snap, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model file %s", path)
	}
	if snap.Name == "" {
		snap.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return snap, nil
}

// Decode parses snapshot bytes in the format indicated by ext.
func Decode(data []byte, ext string) (*source.Snapshot, error) {
	var snap source.Snapshot
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported model file extension %q (must be .json or .toml)", ext)
	}
	return &snap, nil
}

// Write encodes the snapshot as indented JSON and writes it to path.
// Used by inspect --export to round-trip models between backends.
func Write(snap *source.Snapshot, path string) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Ensure Source implements source.Source.
var _ source.Source = (*Source)(nil)
