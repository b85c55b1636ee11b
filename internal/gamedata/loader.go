// Package gamedata provides embedded actor definitions and utilities for
// loading them.
package gamedata

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// Load reads and strictly decodes a JSON file from fsys. Unknown fields are
// rejected so typos in data files surface at startup.
func Load[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", filename, err)
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("parse %s: %w", filename, err)
	}

	return result, nil
}
