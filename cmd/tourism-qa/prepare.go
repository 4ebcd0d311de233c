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

var prepareCmd = &cobra.Command{
	Use:     "prepare <input.csv>",
	Aliases: []string{"split"},
	Short:   "Synthesize QA pairs and split them into train/val/test CSVs",
	Long: `Prepare synthesizes QA pairs from a source CSV, shuffles them with a
fixed seed, and writes train.csv, val.csv, and test.csv to --output-dir.
It fails when the corpus yields no pairs or is too small to split.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrepare,
}

func init() {
	addSynthesisFlags(prepareCmd)
	prepareCmd.Flags().String("output-dir", "", "directory for split files (default data)")
	prepareCmd.Flags().Float64("test-size", 0, "test fraction (default 0.2)")
	prepareCmd.Flags().Float64("val-size", 0, "validation fraction (default 0.1)")
	prepareCmd.Flags().Int64("seed", 0, "shuffle seed (default 42)")

	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	pcfg := cfg.Prepare
	pcfg.Synthesis = synthesisConfig(cmd, pcfg.Synthesis)
	overrideString(cmd, "output-dir", &pcfg.OutputDir)
	overrideFloat(cmd, "test-size", &pcfg.Split.TestSize)
	overrideFloat(cmd, "val-size", &pcfg.Split.ValSize)
	if cmd.Flags().Changed("seed") {
		pcfg.Split.Seed, _ = cmd.Flags().GetInt64("seed")
	}

	s, err := synth.New(pcfg.Synthesis, logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := corpus.Prepare(ctx, s, args[0], pcfg, os.Stdout, logger)
	var pairs []types.QAPair
	for _, part := range [][]types.QAPair{res.Splits.Train, res.Splits.Val, res.Splits.Test} {
		pairs = append(pairs, part...)
	}
	pipelineMetrics.ObserveSynthesis(res.Synthesis, pairs)
	if err != nil {
		return err
	}
	for _, name := range []string{"train", "val", "test"} {
		fmt.Printf("%-5s  %s\n", name, res.Files[name])
	}
	return nil
}
