// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tokenize

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadVocab reads a vocab.txt file with one token per line; the line number
// is the token id. The four special tokens must be present.
func LoadVocab(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int)
	sc := bufio.NewScanner(f)
	for id := 0; sc.Scan(); id++ {
		tok := strings.TrimRight(sc.Text(), "\r")
		if tok == "" {
			continue
		}
		if _, dup := vocab[tok]; !dup {
			vocab[tok] = id
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading vocab %s: %w", path, err)
	}

	for _, tok := range []string{PadToken, UnkToken, ClsToken, SepToken} {
		if _, ok := vocab[tok]; !ok {
			return nil, fmt.Errorf("vocab %s: missing special token %s", path, tok)
		}
	}
	return vocab, nil
}
