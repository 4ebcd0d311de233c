// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/evaluate"
	"github.com/pdiddy/tourism-qa/internal/language"
	"github.com/pdiddy/tourism-qa/internal/tokenize"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <predictions.jsonl>",
	Short: "Decode and score model predictions",
	Long: `Evaluate reads predictions as JSON Lines (question, reference answer,
and either text or tokens with start/end scores), decodes the best answer
span, and reports exact match, F1, BLEU, tourism relevance, and factual
accuracy. Results are saved to --output-dir as results_<model>_<time>.json.

With --compare, evaluate prints a comparison table of saved result files
instead.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().String("model", "model", "model name recorded in the report")
	evaluateCmd.Flags().String("output-dir", "", "directory for result files (default results)")
	evaluateCmd.Flags().String("language", "", "stopwords and interrogatives: en or hr")
	evaluateCmd.Flags().String("vocab", "", "WordPiece vocab.txt used to detokenize")
	evaluateCmd.Flags().Int("top-k", 0, "start/end candidates considered (default 20)")
	evaluateCmd.Flags().Int("max-answer-length", 0, "longest decoded span in tokens (default 50)")
	evaluateCmd.Flags().Bool("compare", false, "print a table comparing saved result files")

	rootCmd.AddCommand(evaluateCmd)
}

// newEvaluator builds an Evaluator from the merged configuration and flags.
func newEvaluator(cmd *cobra.Command, cfg types.PipelineConfig) (*evaluate.Evaluator, types.EvaluationConfig, error) {
	ecfg := cfg.Evaluation
	overrideString(cmd, "output-dir", &ecfg.OutputDir)
	overrideInt(cmd, "top-k", &ecfg.Decode.TopK)
	overrideInt(cmd, "max-answer-length", &ecfg.Decode.MaxAnswerLength)

	tcfg := cfg.Label.Tokenizer
	overrideString(cmd, "vocab", &tcfg.VocabPath)
	tok, err := tokenize.FromConfig(tcfg)
	if err != nil {
		return nil, ecfg, err
	}

	lang := cfg.Prepare.Synthesis.Language
	if cmd.Flags().Changed("language") {
		v, _ := cmd.Flags().GetString("language")
		lang = types.Language(v)
	}
	if lang == "" {
		lang = types.LanguageEnglish
	}
	profile, err := language.New(lang, language.WithLogger(logger))
	if err != nil {
		return nil, ecfg, err
	}

	ev := evaluate.New(ecfg, evaluate.NewScorer(profile), tok, language.Interrogatives(lang), logger)
	return ev, ecfg, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a predictions file, or result files with --compare")
	}

	if compare, _ := cmd.Flags().GetBool("compare"); compare {
		reports := make([]evaluate.Report, 0, len(args))
		for _, path := range args {
			r, err := evaluate.LoadReport(path)
			if err != nil {
				return err
			}
			reports = append(reports, r)
		}
		evaluate.CompareTable(os.Stdout, reports)
		return nil
	}

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	ev, ecfg, err := newEvaluator(cmd, cfg)
	if err != nil {
		return err
	}

	preds, err := evaluate.ReadPredictionsFile(args[0])
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	report, err := ev.Evaluate(model, preds, os.Stdout)
	if err != nil {
		return err
	}
	pipelineMetrics.ObserveReport(report)

	path, err := evaluate.SaveReport(ecfg.OutputDir, report)
	if err != nil {
		return err
	}
	fmt.Println("Results saved to", path)
	return nil
}
