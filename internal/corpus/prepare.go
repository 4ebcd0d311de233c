// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/internal/synth"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// DefaultOutputDir receives split files when PrepareConfig.OutputDir is empty.
const DefaultOutputDir = "data"

// Synthesizer turns source texts into QA pairs. *synth.Synthesizer
// satisfies it.
type Synthesizer interface {
	Corpus(ctx context.Context, texts []types.SourceText, w io.Writer) ([]types.QAPair, synth.CorpusSummary, error)
}

// PrepareResult reports what Prepare produced.
type PrepareResult struct {
	Synthesis synth.CorpusSummary
	Splits    Splits
	// Files maps split names (train, val, test) to written paths.
	Files map[string]string
}

// Prepare reads the source CSV at input, synthesizes QA pairs, splits
// them, and writes train.csv, val.csv, and test.csv to cfg.OutputDir.
// Progress lines go to w. It fails on a missing text column, an empty
// corpus, or a corpus that yields no pairs.
func Prepare(ctx context.Context, s Synthesizer, input string, cfg types.PrepareConfig, w io.Writer, logger *zap.Logger) (PrepareResult, error) {
	logger = logging.OrNop(logger)

	texts, err := ReadTextsFile(input, logger)
	if err != nil {
		return PrepareResult{}, err
	}
	logger.Info("corpus loaded", zap.String("path", input), zap.Int("texts", len(texts)))

	pairs, summary, err := s.Corpus(ctx, texts, w)
	if err != nil {
		return PrepareResult{Synthesis: summary}, fmt.Errorf("synthesizing: %w", err)
	}

	splits, err := Split(pairs, cfg.Split)
	if err != nil {
		return PrepareResult{Synthesis: summary}, err
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = DefaultOutputDir
	}

	result := PrepareResult{Synthesis: summary, Splits: splits, Files: map[string]string{}}
	for _, part := range []struct {
		name  string
		pairs []types.QAPair
	}{
		{"train", splits.Train},
		{"val", splits.Val},
		{"test", splits.Test},
	} {
		path := filepath.Join(outDir, part.name+".csv")
		if err := WritePairsFile(path, part.pairs); err != nil {
			return result, err
		}
		result.Files[part.name] = path
	}

	fmt.Fprintf(w, "train: %d, val: %d, test: %d\n", len(splits.Train), len(splits.Val), len(splits.Test))
	logger.Info("splits written",
		zap.String("dir", outDir),
		zap.Int("train", len(splits.Train)),
		zap.Int("val", len(splits.Val)),
		zap.Int("test", len(splits.Test)),
	)
	return result, nil
}
