// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/corpus"
	"github.com/pdiddy/tourism-qa/internal/label"
	"github.com/pdiddy/tourism-qa/internal/tokenize"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// splitNames are the files prepare writes and label --data-dir reads.
var splitNames = []string{"train", "val", "test"}

var labelCmd = &cobra.Command{
	Use:   "label [pairs-file]",
	Short: "Localize answers and write token-labeled training examples",
	Long: `Label reads QA pairs (CSV, JSON, or YAML), encodes each question with
its context through the offset tokenizer, locates the answer as a character
span, maps it to token positions, and writes one JSON Lines example per
encoded window.

The char_span start_char and end_char fields are byte offsets into the
example's UTF-8 context field (the normalized context), not rune counts.

With --data-dir, label converts train.csv, val.csv, and test.csv in that
directory to train.jsonl, val.jsonl, and test.jsonl for the trainer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLabel,
}

func init() {
	labelCmd.Flags().String("out", "", "output JSONL (default: input name with .jsonl)")
	labelCmd.Flags().String("data-dir", "", "label every split file in this directory")
	labelCmd.Flags().String("vocab", "", "WordPiece vocab.txt (default: basic tokenizer)")
	labelCmd.Flags().Int("max-length", 0, "encoded window length in tokens (default 384)")
	labelCmd.Flags().Int("stride", 0, "token overlap between windows (default 128)")
	labelCmd.Flags().Bool("drop-unfound", false, "drop pairs whose answer cannot be located")
	labelCmd.Flags().String("language", "", "language for pairs without one: en or hr")
	labelCmd.Flags().Int("workers", 0, "concurrent pairs (default GOMAXPROCS)")

	rootCmd.AddCommand(labelCmd)
}

func labelConfig(cmd *cobra.Command, cfg types.LabelConfig) types.LabelConfig {
	overrideString(cmd, "vocab", &cfg.Tokenizer.VocabPath)
	overrideInt(cmd, "max-length", &cfg.Tokenizer.MaxLength)
	overrideInt(cmd, "stride", &cfg.Tokenizer.Stride)
	overrideBool(cmd, "drop-unfound", &cfg.DropNotFound)
	overrideInt(cmd, "workers", &cfg.Workers)
	return cfg
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	lcfg := labelConfig(cmd, cfg.Label)
	dataDir, _ := cmd.Flags().GetString("data-dir")
	out, _ := cmd.Flags().GetString("out")

	jobs := map[string]string{}
	var order []string
	switch {
	case dataDir != "" && len(args) == 0:
		for _, name := range splitNames {
			in := filepath.Join(dataDir, name+".csv")
			jobs[in] = filepath.Join(dataDir, name+".jsonl")
			order = append(order, in)
		}
	case dataDir == "" && len(args) == 1:
		if out == "" {
			out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".jsonl"
		}
		jobs[args[0]] = out
		order = append(order, args[0])
	default:
		return fmt.Errorf("provide either a pairs file or --data-dir")
	}

	tok, err := tokenize.FromConfig(lcfg.Tokenizer)
	if err != nil {
		return err
	}
	lang := string(cfg.Prepare.Synthesis.Language)
	overrideString(cmd, "language", &lang)
	labeler, err := label.New(tok, lcfg, types.Language(lang), logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var failed int
	for _, in := range order {
		pairs, err := corpus.ReadPairsFile(in)
		if err != nil {
			return err
		}
		fmt.Printf("labeling %s (%d pairs)\n", in, len(pairs))

		examples, summary, err := labeler.Run(ctx, pairs, os.Stdout)
		if err != nil {
			return err
		}
		pipelineMetrics.ObserveLabel(summary)
		failed += summary.Failed

		if err := label.WriteJSONLFile(jobs[in], examples); err != nil {
			return err
		}
		fmt.Printf("wrote %d examples to %s (found rate %.1f%%)\n",
			len(examples), jobs[in], 100*summary.FoundRate())
	}

	if failed > 0 {
		return fmt.Errorf("%d pair(s) failed labeling", failed)
	}
	return nil
}
