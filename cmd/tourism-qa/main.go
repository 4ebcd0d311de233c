// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tourism-qa CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/internal/metrics"
	"github.com/pdiddy/tourism-qa/internal/secrets"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

var (
	// logger is built from --log-level and --log-format before any
	// subcommand runs.
	logger = zap.NewNop()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// pipelineMetrics collects counters written by --metrics-file.
	pipelineMetrics = metrics.New()
)

// rootCmd is the base command for the tourism-qa CLI.
var rootCmd = &cobra.Command{
	Use:   "tourism-qa",
	Short: "Synthesize and label extractive QA data from tourism guides",
	Long: `tourism-qa turns free-form tourism guide paragraphs (English and Croatian)
into question/answer/context records with rule-based templates, grounds every
answer as a character and token span, and drives an external trainer image
to fine-tune and evaluate extractive QA models.

Each stage is a subcommand: sample, fetch, synth, prepare, corpus, label,
train, and evaluate.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Config{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		})
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		path := viper.GetString("metrics_file")
		if path == "" {
			return nil
		}
		return pipelineMetrics.WriteTextfile(path)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./tourism-qa.yaml or ~/.config/tourism-qa/tourism-qa.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", logging.FormatConsole, "log format: console or json")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on success")

	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("metrics_file", pf.Lookup("metrics-file"))

	setDefaults()
}

// setDefaults registers every configuration key so that environment
// variables such as TOURISM_QA_TRAINER_IMAGE reach Unmarshal.
func setDefaults() {
	viper.SetDefault("prepare.synthesis.language", string(types.LanguageEnglish))
	viper.SetDefault("prepare.synthesis.workers", 0)
	viper.SetDefault("prepare.split.test_size", 0.2)
	viper.SetDefault("prepare.split.val_size", 0.1)
	viper.SetDefault("prepare.split.seed", 42)
	viper.SetDefault("prepare.output_dir", "data")
	viper.SetDefault("label.tokenizer.vocab_path", "")
	viper.SetDefault("label.tokenizer.max_length", 384)
	viper.SetDefault("label.tokenizer.stride", 128)
	viper.SetDefault("label.localization.max_window_words", 15)
	viper.SetDefault("label.localization.min_keyword_ratio", 0.5)
	viper.SetDefault("label.drop_not_found", false)
	viper.SetDefault("evaluation.decode.top_k", 20)
	viper.SetDefault("evaluation.decode.max_answer_length", 50)
	viper.SetDefault("evaluation.output_dir", "results")
	viper.SetDefault("store.dir", "corpus")
	viper.SetDefault("store.max_results", 20)
	viper.SetDefault("trainer.image", "tourism-qa-trainer:latest")
	viper.SetDefault("trainer.output_dir", "models")
	viper.SetDefault("trainer.data_dir", "data")
	viper.SetDefault("trainer.gpu", false)
	viper.SetDefault("http.timeout", "60s")
	viper.SetDefault("http.user_agent", "tourism-qa/0.1")
	viper.SetDefault("http.max_retries", 5)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tourism-qa")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tourism-qa"))
		}
	}

	viper.SetEnvPrefix("TOURISM_QA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig decodes the merged configuration using the yaml tags of
// the config types.
func pipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
