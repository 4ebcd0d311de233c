// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package label

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// maxLineBytes bounds one JSON Lines record when reading.
const maxLineBytes = 16 << 20

// WriteJSONL writes one example per line.
func WriteJSONL(w io.Writer, examples []types.Example) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encoding example %s: %w", ex.ID, err)
		}
	}
	return bw.Flush()
}

// WriteJSONLFile writes examples to path, creating parent directories.
func WriteJSONLFile(path string, examples []types.Example) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteJSONL(f, examples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSONL reads examples written by WriteJSONL. Blank lines are ignored.
func ReadJSONL(r io.Reader) ([]types.Example, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var out []types.Example
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ex types.Example
		if err := json.Unmarshal(sc.Bytes(), &ex); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, ex)
	}
	return out, sc.Err()
}
