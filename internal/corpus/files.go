// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Format selects a pair file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf infers the format from a file extension, defaulting to CSV.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatCSV
}

// Encode writes pairs to w in the given format.
func Encode(w io.Writer, pairs []types.QAPair, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(pairs)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pairs); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return WritePairs(w, pairs)
	}
	return fmt.Errorf("unknown format %q", f)
}

// Decode reads pairs from r in the given format.
func Decode(r io.Reader, f Format) ([]types.QAPair, error) {
	switch f {
	case FormatJSON:
		var pairs []types.QAPair
		if err := json.NewDecoder(r).Decode(&pairs); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
		return pairs, nil
	case FormatYAML:
		var pairs []types.QAPair
		if err := yaml.NewDecoder(r).Decode(&pairs); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding YAML: %w", err)
		}
		if pairs == nil {
			pairs = []types.QAPair{}
		}
		return pairs, nil
	case FormatCSV:
		return ReadPairs(r)
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// WritePairsFile writes pairs to path, creating parent directories. The
// format follows the extension.
func WritePairsFile(path string, pairs []types.QAPair) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, pairs, FormatOf(path)); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeAtomic(path, buf.Bytes())
}

// ReadPairsFile reads pairs from path. The format follows the extension.
func ReadPairsFile(path string) ([]types.QAPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pairs: %w", err)
	}
	defer f.Close()

	pairs, err := Decode(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

// writeAtomic writes data to a temporary file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
