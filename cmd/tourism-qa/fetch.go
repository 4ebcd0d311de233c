// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/corpus"
	"github.com/pdiddy/tourism-qa/internal/httputil"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a source corpus CSV",
	Long: `Fetch downloads a source CSV from a URL, retrying on HTTP 429 and 503
with exponential backoff, checks that it has a text column and at least one
usable row, and writes it to --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("out", defaultSamplePath, "destination CSV path")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Int("max-retries", 0, "retries on HTTP 429/503 (default 5)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	overrideInt(cmd, "max-retries", &cfg.HTTP.MaxRetries)
	out, _ := cmd.Flags().GetString("out")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	client := httputil.NewClient(cfg.HTTP, logger)
	n, err := corpus.Fetch(ctx, client, args[0], out, logger)
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d texts to %s\n", n, out)
	return nil
}
