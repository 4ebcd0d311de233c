// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Language tags a source text with the rule set used to process it.
type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageCroatian Language = "hr"
)

// SourceText is one record of the input corpus: a free-form guide paragraph.
type SourceText struct {
	// ID identifies the record. When the input has no id column it is the
	// one-based row number.
	ID string `json:"id" yaml:"id"`

	// Language selects the rule set. Empty means the configured default.
	Language Language `json:"language,omitempty" yaml:"language,omitempty"`

	// Text is the raw paragraph.
	Text string `json:"text" yaml:"text"`
}

// QAPair is a synthesized (question, answer, context) training record.
// Within one source text no two pairs share an Answer.
type QAPair struct {
	// ID is a stable identifier derived from source, question, and answer.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`

	// Context is the source sentence joined with its immediate neighbors.
	Context string `json:"context" yaml:"context"`

	// SourceID links the pair back to its SourceText.
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	// Rule names the pattern rule that produced the pair.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`

	Language Language `json:"language,omitempty" yaml:"language,omitempty"`
}
