// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tourism-qa/internal/corpus"
	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/internal/store"
	"github.com/pdiddy/tourism-qa/internal/synth"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the QA corpus store (ingest, query, export, stats)",
	Long: `Corpus manages a local SQLite store of source texts and their
synthesized QA pairs, with FTS5 full-text search over questions and answers.`,
}

// --- ingest subcommand ---

var corpusIngestCmd = &cobra.Command{
	Use:   "ingest <input.csv>",
	Short: "Synthesize and store QA pairs for every source text",
	Long: `Ingest reads a source CSV, synthesizes pairs for each text, and stores
both in the corpus database. Unchanged texts are skipped on later runs and
changed texts have their pairs replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpusIngest,
}

func runCorpusIngest(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	s, err := synth.New(synthesisConfig(cmd, cfg.Prepare.Synthesis), logger)
	if err != nil {
		return err
	}
	texts, err := corpus.ReadTextsFile(args[0], logger)
	if err != nil {
		return err
	}

	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	summary, err := st.Ingest(ctx, s, texts, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d text(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var corpusQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search stored QA pairs with full-text search and filters",
	RunE:  runCorpusQuery,
}

func runCorpusQuery(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --language, --rule, or --source")
	}

	results, err := st.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-4s  %-12s  %-45s  %s\n", "Rank", "Lang", "Rule", "Question", "Answer")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-4s  %-12s  %-45s  %s\n",
			i+1, r.Language, r.Rule, logging.Snippet(r.Question, 45), logging.Snippet(r.Answer, 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var corpusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored QA pairs to YAML or JSON",
	Long: `Export writes the stored pairs (or a filtered subset) to export.yaml or
export.json in the store directory. Supports the same filters as query.`,
	RunE: runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = st.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- stats subcommand ---

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored pair counts per language and rule",
	RunE:  runCorpusStats,
}

func runCorpusStats(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	counts, err := st.Stats(cmd.Context())
	if err != nil {
		return err
	}

	total := 0
	fmt.Printf("%-4s  %-14s  %s\n", "Lang", "Rule", "Pairs")
	for _, c := range counts {
		fmt.Printf("%-4s  %-14s  %d\n", c.Language, c.Rule, c.Pairs)
		total += c.Pairs
	}
	fmt.Printf("\n%d pairs\n", total)
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command, cfg types.StoreConfig) (*store.Store, error) {
	overrideString(cmd, "store-dir", &cfg.Dir)
	overrideInt(cmd, "max-results", &cfg.MaxResults)
	return store.NewStore(cfg, logger)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	lang, _ := cmd.Flags().GetString("language")
	rule, _ := cmd.Flags().GetString("rule")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Language:   types.Language(lang),
		Rule:       rule,
		SourceID:   source,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search over questions and answers")
	cmd.Flags().String("language", "", "filter by language: en or hr")
	cmd.Flags().String("rule", "", "filter by rule name")
	cmd.Flags().String("source", "", "filter by source text ID")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	corpusCmd.PersistentFlags().String("store-dir", "", "directory holding corpus.db (default corpus)")
	corpusCmd.PersistentFlags().Int("max-results", 0, "default maximum number of query results (default 20)")

	addSynthesisFlags(corpusIngestCmd)

	addFilterFlags(corpusQueryCmd)
	corpusQueryCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(corpusExportCmd)
	corpusExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	corpusCmd.AddCommand(corpusIngestCmd)
	corpusCmd.AddCommand(corpusQueryCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	corpusCmd.AddCommand(corpusStatsCmd)

	rootCmd.AddCommand(corpusCmd)
}
