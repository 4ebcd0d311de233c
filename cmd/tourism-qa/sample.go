// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/corpus"
)

const defaultSamplePath = "tourism_guides.csv"

var sampleCmd = &cobra.Command{
	Use:   "sample [path]",
	Short: "Write a sample corpus of English and Croatian guide texts",
	Long: `Sample writes a small source CSV (columns id, language, text) with
Croatian and English tourism guide paragraphs, useful for trying the
pipeline end to end.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	path := defaultSamplePath
	if len(args) == 1 {
		path = args[0]
	}

	n, err := corpus.WriteSample(path)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d texts to %s\n", n, path)
	return nil
}
