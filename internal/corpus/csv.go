// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus reads source guide texts, writes and reads QA-pair
// records, and prepares reproducible train/validation/test splits.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

var (
	// ErrMissingTextColumn is returned when a source CSV has no text column.
	ErrMissingTextColumn = errors.New("CSV must contain a 'text' column")

	// ErrEmptyCorpus is returned when a source CSV holds no usable texts.
	ErrEmptyCorpus = errors.New("corpus contains no texts")

	// ErrMissingPairColumn is returned when a pair CSV lacks question,
	// answer, or context.
	ErrMissingPairColumn = errors.New("CSV must contain question, answer, and context columns")
)

// Source CSV columns.
const (
	colID       = "id"
	colLanguage = "language"
	colText     = "text"
)

// pairColumns is the header written by WritePairs. The first three columns
// are the training record; the rest carry provenance.
var pairColumns = []string{"question", "answer", "context", "id", "source_id", "rule", "language"}

// header maps lower-cased, trimmed column names to their index.
func header(record []string) map[string]int {
	cols := make(map[string]int, len(record))
	for i, name := range record {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return cr
}

// ReadTexts parses a source CSV. The text column is mandatory; id and
// language are optional. Rows with a blank text are skipped, rows that do
// not parse are logged and skipped. A missing id becomes the one-based row
// number.
func ReadTexts(r io.Reader, logger *zap.Logger) ([]types.SourceText, error) {
	logger = logging.OrNop(logger)
	cr := newReader(r)

	first, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyCorpus
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := header(first)
	textCol, ok := cols[colText]
	if !ok {
		return nil, ErrMissingTextColumn
	}

	var texts []types.SourceText
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			logger.Warn("skipping malformed row", zap.Int("row", row), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		if textCol >= len(record) {
			logger.Warn("skipping short row", zap.Int("row", row), zap.Int("fields", len(record)))
			continue
		}

		text := strings.TrimSpace(record[textCol])
		if text == "" {
			continue
		}
		id := cell(record, cols, colID)
		if id == "" {
			id = strconv.Itoa(row)
		}
		texts = append(texts, types.SourceText{
			ID:       id,
			Language: types.Language(strings.ToLower(cell(record, cols, colLanguage))),
			Text:     text,
		})
	}

	if len(texts) == 0 {
		return nil, ErrEmptyCorpus
	}
	return texts, nil
}

// ReadTextsFile opens path and calls ReadTexts.
func ReadTextsFile(path string, logger *zap.Logger) ([]types.SourceText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close()

	texts, err := ReadTexts(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return texts, nil
}

// WriteTexts writes source texts as an id,language,text CSV.
func WriteTexts(w io.Writer, texts []types.SourceText) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{colID, colLanguage, colText}); err != nil {
		return err
	}
	for _, t := range texts {
		if err := cw.Write([]string{t.ID, string(t.Language), t.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePairs writes pairs as CSV with a header row.
func WritePairs(w io.Writer, pairs []types.QAPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pairColumns); err != nil {
		return err
	}
	for _, p := range pairs {
		rec := []string{p.Question, p.Answer, p.Context, p.ID, p.SourceID, p.Rule, string(p.Language)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPairs parses a pair CSV. Only question, answer, and context are
// required.
func ReadPairs(r io.Reader) ([]types.QAPair, error) {
	cr := newReader(r)

	first, err := cr.Read()
	if err == io.EOF {
		return []types.QAPair{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := header(first)
	for _, c := range pairColumns[:3] {
		if _, ok := cols[c]; !ok {
			return nil, ErrMissingPairColumn
		}
	}

	pairs := []types.QAPair{}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		pairs = append(pairs, types.QAPair{
			Question: cell(record, cols, "question"),
			Answer:   cell(record, cols, "answer"),
			Context:  cell(record, cols, "context"),
			ID:       cell(record, cols, "id"),
			SourceID: cell(record, cols, "source_id"),
			Rule:     cell(record, cols, "rule"),
			Language: types.Language(cell(record, cols, "language")),
		})
	}
	return pairs, nil
}
