// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate scores model output against reference answers. It
// decodes the best span from per-token start/end scores, cleans the
// decoded text, and reports exact match, token F1, BLEU, tourism
// relevance, and factual accuracy.
package evaluate

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/internal/span"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// ErrNoPredictions is returned when nothing could be scored.
var ErrNoPredictions = errors.New("no predictions to evaluate")

// Prediction is one model output as written by the trainer. Either Text is
// set, or Tokens with matching StartLogits and EndLogits.
type Prediction struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Reference   string    `json:"reference"`
	Text        string    `json:"text,omitempty"`
	Tokens      []string  `json:"tokens,omitempty"`
	StartLogits []float64 `json:"start_logits,omitempty"`
	EndLogits   []float64 `json:"end_logits,omitempty"`
}

// Detail is the scored result for one prediction.
type Detail struct {
	ID         string  `json:"id,omitempty"`
	Question   string  `json:"question"`
	Prediction string  `json:"prediction"`
	Reference  string  `json:"reference"`
	SpanScore  float64 `json:"span_score,omitempty"`
	Metrics    Metrics `json:"metrics"`
}

// Report is the outcome of one evaluation run.
type Report struct {
	RunID     string    `json:"run_id"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Count     int       `json:"count"`
	Failed    int       `json:"failed"`
	Metrics   Metrics   `json:"metrics"`
	Details   []Detail  `json:"detailed_results"`
}

// Detokenizer renders tokens as text. tokenize.OffsetTokenizer satisfies it.
type Detokenizer interface {
	Detokenize(tokens []string) string
}

// Evaluator decodes and scores predictions.
type Evaluator struct {
	decoder *span.Decoder
	scorer  *Scorer
	detok   Detokenizer
	logger  *zap.Logger
	now     func() time.Time
}

// New returns an Evaluator.
func New(cfg types.EvaluationConfig, scorer *Scorer, detok Detokenizer, interrogatives []string, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		decoder: span.NewDecoder(cfg.Decode, interrogatives),
		scorer:  scorer,
		detok:   detok,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

// answer returns the cleaned answer text for p and its span score.
func (e *Evaluator) answer(p Prediction) (string, float64, error) {
	if len(p.Tokens) == 0 {
		return CleanPrediction(p.Text), 0, nil
	}
	if len(p.StartLogits) != len(p.Tokens) || len(p.EndLogits) != len(p.Tokens) {
		return "", 0, fmt.Errorf("%d tokens but %d start and %d end scores",
			len(p.Tokens), len(p.StartLogits), len(p.EndLogits))
	}

	d, ok := e.decoder.Decode(p.StartLogits, p.EndLogits, func(s, end int) string {
		return e.detok.Detokenize(p.Tokens[s : end+1])
	})
	if !ok {
		return "", 0, nil
	}
	return CleanPrediction(d.Text), d.Score, nil
}

// Evaluate scores every prediction and returns a report with mean metrics.
// Predictions that cannot be decoded are logged and counted as failed.
// Per-metric means are written to w.
func (e *Evaluator) Evaluate(model string, preds []Prediction, w io.Writer) (Report, error) {
	report := Report{
		RunID:     uuid.NewString(),
		Model:     model,
		CreatedAt: e.now().UTC(),
		Details:   []Detail{},
	}

	var sum Metrics
	for _, p := range preds {
		text, score, err := e.answer(p)
		if err != nil {
			e.logger.Warn("skipping prediction",
				zap.String("id", p.ID),
				zap.String("question", logging.Snippet(p.Question, 60)),
				zap.Error(err),
			)
			report.Failed++
			continue
		}

		m := e.scorer.Score(text, p.Reference)
		sum.add(m)
		report.Details = append(report.Details, Detail{
			ID:         p.ID,
			Question:   p.Question,
			Prediction: text,
			Reference:  p.Reference,
			SpanScore:  score,
			Metrics:    m,
		})
	}

	report.Count = len(report.Details)
	if report.Count == 0 {
		return report, ErrNoPredictions
	}
	report.Metrics = sum.scale(1 / float64(report.Count))

	fmt.Fprintf(w, "model: %s, evaluated: %d, failed: %d\n", model, report.Count, report.Failed)
	for i, v := range report.Metrics.Values() {
		fmt.Fprintf(w, "%s: %.4f\n", MetricNames[i], v)
	}
	return report, nil
}

// ReadPredictions reads predictions as JSON Lines.
func ReadPredictions(r io.Reader) ([]Prediction, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)

	var preds []Prediction
	for line := 1; sc.Scan(); line++ {
		if len(strings.TrimSpace(sc.Text())) == 0 {
			continue
		}
		var p Prediction
		if err := json.Unmarshal(sc.Bytes(), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		preds = append(preds, p)
	}
	return preds, sc.Err()
}

// ReadPredictionsFile opens path and calls ReadPredictions.
func ReadPredictionsFile(path string) ([]Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening predictions: %w", err)
	}
	defer f.Close()
	return ReadPredictions(f)
}

// SaveReport writes the report to dir/results_<model>_<timestamp>.json and
// returns the path.
func SaveReport(dir string, r Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	name := fmt.Sprintf("results_%s_%s.json", safeName(r.Model), r.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return r, nil
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
}

// CompareTable writes one row per report with every mean metric.
func CompareTable(w io.Writer, reports []Report) {
	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-15s", "Model"))
	for _, name := range MetricNames {
		hb.WriteString(fmt.Sprintf(" | %-17s", name))
	}
	header := hb.String()
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, r := range reports {
		fmt.Fprintf(w, "%-15s", r.Model)
		for _, v := range r.Metrics.Values() {
			fmt.Fprintf(w, " | %-17.4f", v)
		}
		fmt.Fprintln(w)
	}
}
