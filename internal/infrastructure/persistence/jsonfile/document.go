// Package jsonfile implements the student and progress stores as two JSON
// documents on disk. Every mutation rewrites the whole document.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alem-hub/progress-tracker/internal/domain/shared"
	"github.com/alem-hub/progress-tracker/pkg/logger"
)

// indent matches the layout of documents written by earlier versions.
const indent = "    "

// ══════════════════════════════════════════════════════════════════════════════
// DOCUMENT
// ══════════════════════════════════════════════════════════════════════════════

// document is one JSON object keyed by username.
type document[T any] struct {
	path string
	log  *logger.Logger
}

// load reads the document. A missing file is seeded and written immediately.
// An unreadable or unparsable file yields an empty map; the problem is logged
// and reported through the returned bool so callers can tell fallback from data.
func (d document[T]) load(seed func() (map[string]T, error)) (map[string]T, bool, error) {
	raw, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		data, err := seed()
		if err != nil {
			return nil, false, fmt.Errorf("seed %s: %w", d.path, err)
		}
		if err := d.save(data); err != nil {
			return nil, false, err
		}
		d.log.Info("seeded document", logger.Path(d.path), logger.Int("records", len(data)))
		return data, false, nil
	}
	if err != nil {
		d.log.Warn("document unreadable, starting empty",
			logger.Path(d.path), logger.Err(fmt.Errorf("%w: %v", shared.ErrCorruptData, err)))
		return map[string]T{}, true, nil
	}

	var data map[string]T
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		if err == nil {
			err = errors.New("document is not an object")
		}
		d.log.Warn("document corrupt, starting empty",
			logger.Path(d.path), logger.Err(fmt.Errorf("%w: %v", shared.ErrCorruptData, err)))
		return map[string]T{}, true, nil
	}

	return data, false, nil
}

// save overwrites the document through a temp file and rename.
func (d document[T]) save(data map[string]T) error {
	raw, err := json.MarshalIndent(data, "", indent)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", d.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", d.path, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("replace %s: %w", d.path, err)
	}

	d.log.Debug("document saved", logger.Path(d.path), logger.Int("records", len(data)))
	return nil
}
