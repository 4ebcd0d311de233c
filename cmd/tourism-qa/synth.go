// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/corpus"
	"github.com/pdiddy/tourism-qa/internal/synth"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

var synthCmd = &cobra.Command{
	Use:   "synth <input.csv>",
	Short: "Synthesize QA pairs from a source CSV",
	Long: `Synth reads a source CSV with a text column (optional id and language
columns), segments each text into sentences, applies the language's pattern
rules, validates answers, and writes question/answer/context records.

The output format follows the --out extension: .csv, .json, or .yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	addSynthesisFlags(synthCmd)
	synthCmd.Flags().String("out", "qa_pairs.csv", "output file (.csv, .json, .yaml)")

	rootCmd.AddCommand(synthCmd)
}

func addSynthesisFlags(cmd *cobra.Command) {
	cmd.Flags().String("language", "", "default language for rows without one: en or hr")
	cmd.Flags().Int("min-answer-words", 0, "smallest accepted answer (default 3)")
	cmd.Flags().Int("max-answer-words", 0, "largest accepted answer (default 50)")
	cmd.Flags().Int("workers", 0, "concurrent texts (default GOMAXPROCS)")
}

func synthesisConfig(cmd *cobra.Command, cfg types.SynthesisConfig) types.SynthesisConfig {
	lang := string(cfg.Language)
	overrideString(cmd, "language", &lang)
	cfg.Language = types.Language(lang)
	overrideInt(cmd, "min-answer-words", &cfg.MinAnswerWords)
	overrideInt(cmd, "max-answer-words", &cfg.MaxAnswerWords)
	overrideInt(cmd, "workers", &cfg.Workers)
	return cfg
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	scfg := synthesisConfig(cmd, cfg.Prepare.Synthesis)
	out, _ := cmd.Flags().GetString("out")

	s, err := synth.New(scfg, logger)
	if err != nil {
		return err
	}
	texts, err := corpus.ReadTextsFile(args[0], logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pairs, summary, err := s.Corpus(ctx, texts, os.Stdout)
	pipelineMetrics.ObserveSynthesis(summary, pairs)
	if err != nil {
		return err
	}
	if err := corpus.WritePairsFile(out, pairs); err != nil {
		return err
	}
	fmt.Printf("wrote %d pairs to %s\n", len(pairs), out)

	if summary.Failed > 0 {
		return fmt.Errorf("%d text(s) failed synthesis", summary.Failed)
	}
	return nil
}
