package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "tourism-qa/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SynthesisConfig holds settings for QA-pair synthesis.
type SynthesisConfig struct {
	// Language is the default rule set for texts without a language column.
	Language Language `json:"language" yaml:"language"`

	// MinAnswerWords is the smallest accepted answer length (default 3).
	MinAnswerWords int `json:"min_answer_words" yaml:"min_answer_words"`

	// MaxAnswerWords is the largest accepted answer length (default 50).
	MaxAnswerWords int `json:"max_answer_words" yaml:"max_answer_words"`

	// MinSentenceWords skips shorter sentences during extraction (default 5).
	MinSentenceWords int `json:"min_sentence_words" yaml:"min_sentence_words"`

	// MinQuestionWords rejects shorter questions (default 3).
	MinQuestionWords int `json:"min_question_words" yaml:"min_question_words"`

	// Workers bounds concurrent texts. Zero uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// SplitConfig holds settings for the shuffle-and-partition split.
type SplitConfig struct {
	// TestSize is the fraction of pairs held out for testing (default 0.2).
	TestSize float64 `json:"test_size" yaml:"test_size"`

	// ValSize is the fraction of pairs held out for validation (default 0.1).
	ValSize float64 `json:"val_size" yaml:"val_size"`

	// Seed makes the shuffle reproducible (default 42).
	Seed int64 `json:"seed" yaml:"seed"`
}

// PrepareConfig holds settings for the corpus preparation stage.
type PrepareConfig struct {
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Split     SplitConfig     `json:"split" yaml:"split"`

	// OutputDir receives train.csv, val.csv, and test.csv.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// LocalizationConfig tunes the sliding-window answer localizer.
type LocalizationConfig struct {
	// MaxWindowWords caps the sliding window length (default 15).
	MaxWindowWords int `json:"max_window_words" yaml:"max_window_words"`

	// MinKeywordRatio is the fraction of answer key words a window must
	// contain to be a candidate (default 0.5).
	MinKeywordRatio float64 `json:"min_keyword_ratio" yaml:"min_keyword_ratio"`
}

// TokenizerConfig describes the offset-producing tokenizer.
type TokenizerConfig struct {
	// VocabPath points to a WordPiece vocab.txt. Empty selects the basic
	// whitespace/punctuation tokenizer.
	VocabPath string `json:"vocab_path,omitempty" yaml:"vocab_path,omitempty"`

	// MaxLength is the encoded window length in tokens (default 384).
	MaxLength int `json:"max_length" yaml:"max_length"`

	// Stride is the token overlap between overflow windows (default 128).
	Stride int `json:"stride" yaml:"stride"`
}

// LabelConfig holds settings for building labeled training examples.
type LabelConfig struct {
	Tokenizer    TokenizerConfig    `json:"tokenizer" yaml:"tokenizer"`
	Localization LocalizationConfig `json:"localization" yaml:"localization"`

	// DropNotFound discards examples whose answer could not be localized.
	DropNotFound bool `json:"drop_not_found" yaml:"drop_not_found"`

	// Workers bounds concurrent rows. Zero uses GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
}

// DecodeConfig tunes the span-decoding scorer.
type DecodeConfig struct {
	// TopK is the number of start and end candidates considered (default 20).
	TopK int `json:"top_k" yaml:"top_k"`

	// MaxAnswerLength is the longest decoded span in tokens (default 50).
	MaxAnswerLength int `json:"max_answer_length" yaml:"max_answer_length"`
}

// EvaluationConfig holds settings for the evaluation stage.
type EvaluationConfig struct {
	Decode DecodeConfig `json:"decode" yaml:"decode"`

	// OutputDir receives results_<model>_<timestamp>.json files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// StoreConfig holds settings for the SQLite corpus store.
type StoreConfig struct {
	// Dir is the directory that holds corpus.db and exports.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ModelSpec names one model the external trainer fine-tunes.
type ModelSpec struct {
	// Name is the short label used in reports (e.g. "BERT").
	Name string `json:"name" yaml:"name"`

	// Path is the pretrained checkpoint (e.g. "bert-base-uncased").
	Path string `json:"path" yaml:"path"`

	BatchSize int `json:"batch_size" yaml:"batch_size"`
	GradAccum int `json:"grad_accum" yaml:"grad_accum"`
}

// TrainerConfig holds settings for the containerized training harness.
type TrainerConfig struct {
	// Image is the trainer container image.
	Image string `json:"image" yaml:"image"`

	// Models lists the checkpoints to fine-tune, in order.
	Models []ModelSpec `json:"models" yaml:"models"`

	// OutputDir is the base directory for per-model outputs.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DataDir holds train.jsonl, val.jsonl, and test.jsonl.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// GPU exposes host GPUs to the trainer container.
	GPU bool `json:"gpu" yaml:"gpu"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Prepare    PrepareConfig    `json:"prepare" yaml:"prepare"`
	Label      LabelConfig      `json:"label" yaml:"label"`
	Evaluation EvaluationConfig `json:"evaluation" yaml:"evaluation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Trainer    TrainerConfig    `json:"trainer" yaml:"trainer"`
	HTTP       HTTPConfig       `json:"http" yaml:"http"`
}
