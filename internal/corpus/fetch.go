// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Getter downloads a URL. *httputil.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Fetch downloads a source CSV from url, checks that it parses as a corpus,
// and writes it to dest. It returns the number of usable texts.
func Fetch(ctx context.Context, g Getter, url, dest string, logger *zap.Logger) (int, error) {
	body, err := g.Get(ctx, url)
	if err != nil {
		return 0, err
	}

	texts, err := ReadTexts(bytes.NewReader(body), logger)
	if err != nil {
		return 0, fmt.Errorf("validating %s: %w", url, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeAtomic(dest, body); err != nil {
		return 0, err
	}
	return len(texts), nil
}
