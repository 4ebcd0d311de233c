// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/container"
	"github.com/pdiddy/tourism-qa/internal/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fine-tune and evaluate models in the trainer container",
	Long: `Train runs the trainer image once per configured model (docker, or
podman when docker is unavailable). Each model is fine-tuned on
train.jsonl and val.jsonl from the data directory, predicts test.jsonl,
and is scored like evaluate. A failing model does not stop the others;
its container is always removed. Secrets from .secrets/ are passed as
environment variables (hf-token becomes HF_TOKEN).`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().String("image", "", "trainer image (default tourism-qa-trainer:latest)")
	trainCmd.Flags().String("data-dir", "", "directory with train/val/test.jsonl (default data)")
	trainCmd.Flags().String("models-dir", "", "base directory for model outputs (default models)")
	trainCmd.Flags().String("output-dir", "", "directory for result files (default results)")
	trainCmd.Flags().Bool("gpu", false, "expose host GPUs to the container")
	trainCmd.Flags().String("language", "", "stopwords and interrogatives: en or hr")
	trainCmd.Flags().String("vocab", "", "WordPiece vocab.txt used to detokenize")
	trainCmd.Flags().Int("top-k", 0, "start/end candidates considered (default 20)")
	trainCmd.Flags().Int("max-answer-length", 0, "longest decoded span in tokens (default 50)")

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	tcfg := cfg.Trainer
	overrideString(cmd, "image", &tcfg.Image)
	overrideString(cmd, "data-dir", &tcfg.DataDir)
	overrideString(cmd, "models-dir", &tcfg.OutputDir)
	overrideBool(cmd, "gpu", &tcfg.GPU)
	if len(tcfg.Models) == 0 {
		tcfg.Models = trainer.DefaultModels
	}

	ev, ecfg, err := newEvaluator(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Using container runtime: %s\n", rt.Name())

	runner := trainer.NewRunner(rt, tcfg, ev, ecfg.OutputDir, loadedSecrets.Env(), logger)
	res, err := runner.Run(ctx, os.Stdout)
	if err != nil {
		return err
	}
	for _, r := range res.Reports {
		pipelineMetrics.ObserveReport(r)
	}
	if res.HasFailures() {
		return fmt.Errorf("%d model(s) failed: %v", len(res.Failed), res.Failed)
	}
	return nil
}
